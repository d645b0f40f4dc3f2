package domain

import (
	"context"
	"errors"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNoDocument is returned by a ConversationBackend when nothing has
	// been persisted yet.
	ErrNoDocument = errors.New("no conversation document")
)

// CompletionRequest is one call to the hosted completion endpoint. Messages
// start with the system prompt.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	TopP        float32
	MaxTokens   int
}

type CompletionResponse struct {
	Content     string
	TotalTokens int
}

// CompletionClient is the black-box LLM collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// ConversationBackend reads and rewrites the whole conversation document.
type ConversationBackend interface {
	Load(ctx context.Context) (*Collection, error)
	Save(ctx context.Context, c *Collection) error
}

// ConversationGetter is implemented by backends that can read one
// conversation without loading the whole document. A missing id yields
// ErrConversationNotFound.
type ConversationGetter interface {
	Get(ctx context.Context, id ConversationID) (Conversation, error)
}

// SessionStore keeps live session state for the running process.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	DeleteSession(id SessionID) error
}

// Speaker is the optional text-to-speech collaborator.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}
