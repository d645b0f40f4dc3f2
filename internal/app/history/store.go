// Package history owns the durable collection of conversations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

// DefaultMaxConversations matches the local history limit of the web client.
const DefaultMaxConversations = 50

// Store applies upsert/delete/grouping on top of a whole-document backend.
// Every mutation is read-then-fully-rewrite; there is no cache.
type Store struct {
	backend          domain.ConversationBackend
	maxConversations int
	loc              *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithMaxConversations caps the collection after a prepend; 0 disables the cap.
func WithMaxConversations(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxConversations = n
		}
	}
}

// WithLocation sets the calendar used for recency buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewStore wraps backend with the default cap of DefaultMaxConversations and
// the host time zone.
func NewStore(backend domain.ConversationBackend, opts ...Option) *Store {
	s := &Store{
		backend:          backend,
		maxConversations: DefaultMaxConversations,
		loc:              time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load never fails: a missing or unreadable document yields an empty
// collection. The two cases are logged differently.
func (s *Store) Load(ctx context.Context) domain.Collection {
	log := observability.LoggerFromContext(ctx)

	c, err := s.read(ctx)
	switch {
	case errors.Is(err, domain.ErrNoDocument):
		log.Debug("no conversation history yet")
	case err != nil:
		log.Warn("conversation store unreadable, starting with empty history", "error", err)
	}
	return c
}

// read returns the normalized document. On error the collection is empty
// and err is the backend error, ErrNoDocument included.
func (s *Store) read(ctx context.Context) (domain.Collection, error) {
	empty := domain.Collection{Conversations: []domain.Conversation{}}

	c, err := s.backend.Load(ctx)
	if err != nil {
		return empty, err
	}
	if c == nil {
		return empty, nil
	}

	if c.Conversations == nil {
		c.Conversations = []domain.Conversation{}
	}
	for i := range c.Conversations {
		c.Conversations[i].Normalize()
	}
	return *c, nil
}

// readForWrite is read for mutations. Only a missing document counts as
// empty; any other failure aborts so the stored copy is never overwritten.
func (s *Store) readForWrite(ctx context.Context) (domain.Collection, error) {
	c, err := s.read(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoDocument) {
		observability.LoggerFromContext(ctx).Error("failed to load conversations", "error", err)
		return c, fmt.Errorf("load conversations: %w", err)
	}
	return c, nil
}

// Save rewrites the whole document.
func (s *Store) Save(ctx context.Context, c domain.Collection) error {
	if c.Conversations == nil {
		c.Conversations = []domain.Conversation{}
	}
	if err := s.backend.Save(ctx, &c); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save conversations", "error", err)
		return fmt.Errorf("save conversations: %w", err)
	}
	return nil
}

// Upsert replaces the conversation with the same id in place, or prepends it.
func (s *Store) Upsert(ctx context.Context, conv domain.Conversation) error {
	c, err := s.readForWrite(ctx)
	if err != nil {
		return err
	}
	conv = conv.Clone()
	conv.MessageCount = len(conv.Messages)

	if i := c.Index(conv.ID); i >= 0 {
		c.Conversations[i] = conv
	} else {
		c.Conversations = append([]domain.Conversation{conv}, c.Conversations...)
		if s.maxConversations > 0 && len(c.Conversations) > s.maxConversations {
			c.Conversations = c.Conversations[:s.maxConversations]
		}
	}

	observability.LoggerFromContext(ctx).Debug("upserting conversation",
		"conversation_id", conv.ID,
		"message_count", conv.MessageCount,
	)
	return s.Save(ctx, c)
}

// Delete removes id. An unknown id leaves the collection unchanged and is
// not an error.
func (s *Store) Delete(ctx context.Context, id domain.ConversationID) error {
	c, err := s.readForWrite(ctx)
	if err != nil {
		return err
	}

	kept := c.Conversations[:0]
	for _, conv := range c.Conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	c.Conversations = kept

	return s.Save(ctx, c)
}

// Get returns a copy of the stored conversation. Backends that can read a
// single conversation are asked directly.
func (s *Store) Get(ctx context.Context, id domain.ConversationID) (domain.Conversation, bool) {
	if getter, ok := s.backend.(domain.ConversationGetter); ok {
		conv, err := getter.Get(ctx, id)
		switch {
		case err == nil:
			conv.Normalize()
			return conv, true
		case errors.Is(err, domain.ErrConversationNotFound):
			return domain.Conversation{}, false
		default:
			observability.LoggerFromContext(ctx).Warn("direct conversation read failed, scanning document",
				"conversation_id", id,
				"error", err,
			)
		}
	}

	c := s.Load(ctx)
	if i := c.Index(id); i >= 0 {
		return c.Conversations[i].Clone(), true
	}
	return domain.Conversation{}, false
}

// Export returns the full document as indented JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	c := s.Load(ctx)
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return b, nil
}
