package llm

import (
	"context"
	"fmt"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// MockLLM answers locally without a network call. It is used for offline
// development and tests.
type MockLLM struct {
	// Err, when set, is returned from every call.
	Err error

	// Requests records every request received.
	Requests []domain.CompletionRequest
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// NewFailingLLM returns a mock whose every completion fails with err.
func NewFailingLLM(err error) *MockLLM {
	return &MockLLM{Err: err}
}

func (m *MockLLM) Complete(_ context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return domain.CompletionResponse{}, m.Err
	}

	text := SplitPrompt(req).LastUserText()
	reply := fmt.Sprintf("I hear you. You said %q. Tell me more about that.", text)
	return domain.CompletionResponse{
		Content:     reply,
		TotalTokens: len(text) + len(reply),
	}, nil
}
