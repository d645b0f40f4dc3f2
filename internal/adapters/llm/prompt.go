package llm

import (
	"strings"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// Prompt is a completion request split the way instruction-style APIs
// expect it: one system instruction plus the user/assistant turns.
type Prompt struct {
	System string
	Turns  []domain.Message
}

// SplitPrompt moves every system message into Prompt.System, in order.
func SplitPrompt(req domain.CompletionRequest) Prompt {
	var (
		system []string
		turns  = make([]domain.Message, 0, len(req.Messages))
	)
	for _, m := range req.Messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	return Prompt{
		System: strings.Join(system, "\n\n"),
		Turns:  turns,
	}
}

// LastUserText returns the content of the most recent user turn.
func (p Prompt) LastUserText() string {
	for i := len(p.Turns) - 1; i >= 0; i-- {
		if p.Turns[i].Role == domain.RoleUser {
			return p.Turns[i].Content
		}
	}
	return ""
}
