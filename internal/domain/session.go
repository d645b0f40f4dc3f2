package domain

const (
	DefaultTemperature = 1.0
	MinTemperature     = 0.5
	MaxTemperature     = 1.3
)

// Session is the explicit per-operator state that the controller threads
// through every component call. It is never shared between sessions.
type Session struct {
	ID      SessionID
	Started Timestamp

	Mode        Mode
	Personality Personality
	CurrentMood Mood
	Status      Status
	Temperature float64

	VoiceInput    bool
	AutoSpeak     bool
	ShowMoodBadge bool

	TokensUsed int

	// Conversation is the working copy; it reaches the store only on
	// explicit save points.
	Conversation Conversation
}

// NewSession returns a session with the fixed defaults.
func NewSession(id SessionID, now Timestamp, conv Conversation) *Session {
	return &Session{
		ID:            id,
		Started:       now,
		Mode:          ModeStandard,
		Personality:   PersonalityBalanced,
		CurrentMood:   DefaultMood,
		Status:        StatusIdle,
		Temperature:   DefaultTemperature,
		VoiceInput:    true,
		AutoSpeak:     true,
		ShowMoodBadge: true,
		Conversation:  conv,
	}
}

// Privileged reports whether creator mode is active.
func (s *Session) Privileged() bool {
	return s.Mode == ModeCreator
}

// Reset discards everything but the session id.
func (s *Session) Reset(now Timestamp, conv Conversation) {
	*s = *NewSession(s.ID, now, conv)
}

// ClampTemperature bounds t to the selectable range.
func ClampTemperature(t float64) float64 {
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}

// ParsePersonality maps free text onto a known personality, defaulting to balanced.
func ParsePersonality(s string) Personality {
	for _, p := range Personalities {
		if string(p) == s {
			return p
		}
	}
	return PersonalityBalanced
}
