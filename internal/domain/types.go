package domain

import "time"

type SessionID string
type ConversationID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Mode is captured on every saved conversation.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeCreator  Mode = "creator" // unlocked by the operator passphrase
)

// Personality selects the tone modifiers used in standard mode.
type Personality string

const (
	PersonalityBalanced     Personality = "balanced"
	PersonalityProfessional Personality = "professional"
	PersonalityCreative     Personality = "creative"
	PersonalityAnalytical   Personality = "analytical"
)

// Personalities lists the selectable personalities in display order.
var Personalities = []Personality{
	PersonalityBalanced,
	PersonalityProfessional,
	PersonalityCreative,
	PersonalityAnalytical,
}

// Status is the turn-taking state shown in the header.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusThinking Status = "thinking"
	StatusSpeaking Status = "speaking"
	// StatusProcessing is a display alias of StatusThinking.
	StatusProcessing Status = "processing"
)

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodCalm      Mood = "calm"
	MoodConfident Mood = "confident"
	MoodWorried   Mood = "worried"
	MoodFlirty    Mood = "flirty"
	MoodLoving    Mood = "loving"
	MoodThinking  Mood = "thinking"
	MoodListening Mood = "listening"
	MoodPlayful   Mood = "playful"
	MoodFocused   Mood = "focused"

	// Raw classifier labels, folded into the displayable set.
	MoodExcited    Mood = "excited"
	MoodFrustrated Mood = "frustrated"
	MoodSad        Mood = "sad"
	MoodShy        Mood = "shy"
)

// DefaultMood seeds every mood history.
const DefaultMood = MoodCalm

// DisplayMoods is the set of moods that have an avatar and a badge.
var DisplayMoods = []Mood{
	MoodHappy,
	MoodCalm,
	MoodConfident,
	MoodWorried,
	MoodFlirty,
	MoodLoving,
	MoodThinking,
	MoodListening,
	MoodPlayful,
	MoodFocused,
}

// IsDisplayable reports whether m belongs to DisplayMoods.
func (m Mood) IsDisplayable() bool {
	for _, d := range DisplayMoods {
		if d == m {
			return true
		}
	}
	return false
}

type Timestamp = time.Time
