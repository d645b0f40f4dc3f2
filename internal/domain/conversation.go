package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxMoodHistory caps Conversation.MoodHistory; the oldest entries go first.
	MaxMoodHistory = 20

	// TitleMaxRunes is the length of a derived title before the ellipsis.
	TitleMaxRunes = 40

	DefaultTitle = "New Chat"
)

// Message is one immutable entry of a transcript.
type Message struct {
	Role    Role   `json:"role" jsonschema:"enum=user,enum=assistant,enum=system"`
	Content string `json:"content"`
}

// Conversation is one titled, persisted transcript.
type Conversation struct {
	ID           ConversationID `json:"id"`
	Title        string         `json:"title"`
	Created      Timestamp      `json:"created"`
	Updated      Timestamp      `json:"updated"`
	Mode         Mode           `json:"mode" jsonschema:"enum=standard,enum=creator"`
	Messages     []Message      `json:"messages"`
	MoodHistory  []Mood         `json:"moodHistory"`
	MessageCount int            `json:"messageCount"`

	// titleLocked is set when the title was overridden explicitly.
	titleLocked bool
}

// Collection is the durable conversation document.
type Collection struct {
	Conversations []Conversation `json:"conversations"`
}

// NewConversation starts an empty transcript seeded with the default mood.
func NewConversation(id ConversationID, now Timestamp, mode Mode) Conversation {
	return Conversation{
		ID:          id,
		Title:       DefaultTitle,
		Created:     now,
		Updated:     now,
		Mode:        mode,
		Messages:    []Message{},
		MoodHistory: []Mood{DefaultMood},
	}
}

// Append adds a message and keeps MessageCount in step. The first user
// message derives the title unless it was set explicitly.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.MessageCount++

	if msg.Role == RoleUser && !c.titleLocked && c.userMessages() == 1 {
		c.Title = DeriveTitle(msg.Content)
	}
}

// SetTitle overrides the derived title.
func (c *Conversation) SetTitle(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	c.Title = title
	c.titleLocked = true
}

// PushMood records m unless it repeats the latest entry. Returns true when
// the history changed.
func (c *Conversation) PushMood(m Mood) bool {
	if n := len(c.MoodHistory); n > 0 && c.MoodHistory[n-1] == m {
		return false
	}
	c.MoodHistory = append(c.MoodHistory, m)
	if over := len(c.MoodHistory) - MaxMoodHistory; over > 0 {
		c.MoodHistory = append([]Mood(nil), c.MoodHistory[over:]...)
	}
	return true
}

// LastMood returns the most recent mood, or DefaultMood for an empty history.
func (c *Conversation) LastMood() Mood {
	if n := len(c.MoodHistory); n > 0 {
		return c.MoodHistory[n-1]
	}
	return DefaultMood
}

// Normalize repairs invariants on a conversation read from storage.
func (c *Conversation) Normalize() {
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	if len(c.MoodHistory) == 0 {
		c.MoodHistory = []Mood{DefaultMood}
	}
	if over := len(c.MoodHistory) - MaxMoodHistory; over > 0 {
		c.MoodHistory = c.MoodHistory[over:]
	}
	c.MessageCount = len(c.Messages)
	if c.Mode == "" {
		c.Mode = ModeStandard
	}
}

// Clone returns a deep copy safe to hand across the store boundary.
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = append([]Message(nil), c.Messages...)
	out.MoodHistory = append([]Mood(nil), c.MoodHistory...)
	return out
}

func (c *Conversation) userMessages() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// DeriveTitle truncates text to TitleMaxRunes runes, adding "..." when cut.
func DeriveTitle(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(text) <= TitleMaxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:TitleMaxRunes]) + "..."
}

// Index returns the position of id in the collection, or -1.
func (c *Collection) Index(id ConversationID) int {
	for i := range c.Conversations {
		if c.Conversations[i].ID == id {
			return i
		}
	}
	return -1
}
