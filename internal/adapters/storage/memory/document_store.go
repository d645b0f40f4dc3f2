package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// DocumentStore is a ConversationBackend that keeps the document in memory.
// It stores the encoded form so callers never share slices with it.
type DocumentStore struct {
	mu  sync.RWMutex
	doc []byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

func (s *DocumentStore) Load(_ context.Context) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}

	var c domain.Collection
	if err := json.Unmarshal(s.doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DocumentStore) Save(_ context.Context, c *domain.Collection) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = b
	return nil
}
