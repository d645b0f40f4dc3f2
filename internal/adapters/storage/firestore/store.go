package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

const DefaultCollection = "tessa_conversations"

// Store keeps one Firestore document per conversation; the "position" field
// preserves the collection order.
type Store struct {
	client     *firestore.Client
	collection string
}

// NewStore creates a Firestore store for projectID.
func NewStore(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *Store) conversationDoc(id domain.ConversationID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type messageDoc struct {
	Role    string `firestore:"role"`
	Content string `firestore:"content"`
}

type conversationDoc struct {
	Position     int          `firestore:"position"`
	Title        string       `firestore:"title"`
	Created      time.Time    `firestore:"created"`
	Updated      time.Time    `firestore:"updated"`
	Mode         string       `firestore:"mode"`
	Messages     []messageDoc `firestore:"messages"`
	MoodHistory  []string     `firestore:"mood_history"`
	MessageCount int          `firestore:"message_count"`
}

func toDoc(c domain.Conversation, position int) conversationDoc {
	msgs := make([]messageDoc, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = messageDoc{Role: string(m.Role), Content: m.Content}
	}
	moods := make([]string, len(c.MoodHistory))
	for i, m := range c.MoodHistory {
		moods[i] = string(m)
	}

	return conversationDoc{
		Position:     position,
		Title:        c.Title,
		Created:      c.Created,
		Updated:      c.Updated,
		Mode:         string(c.Mode),
		Messages:     msgs,
		MoodHistory:  moods,
		MessageCount: c.MessageCount,
	}
}

func fromDoc(id string, d conversationDoc) domain.Conversation {
	msgs := make([]domain.Message, len(d.Messages))
	for i, m := range d.Messages {
		msgs[i] = domain.Message{Role: domain.Role(m.Role), Content: m.Content}
	}
	moods := make([]domain.Mood, len(d.MoodHistory))
	for i, m := range d.MoodHistory {
		moods[i] = domain.Mood(m)
	}

	return domain.Conversation{
		ID:           domain.ConversationID(id),
		Title:        d.Title,
		Created:      d.Created,
		Updated:      d.Updated,
		Mode:         domain.Mode(d.Mode),
		Messages:     msgs,
		MoodHistory:  moods,
		MessageCount: d.MessageCount,
	}
}

// ─────────────────────────────────────────
// ConversationBackend implementation
// ─────────────────────────────────────────

func (s *Store) Load(ctx context.Context) (*domain.Collection, error) {
	iter := s.conversationsCol().OrderBy("position", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := &domain.Collection{Conversations: []domain.Conversation{}}
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore Load: %w", err)
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore Load decode %s: %w", snap.Ref.ID, err)
		}
		out.Conversations = append(out.Conversations, fromDoc(snap.Ref.ID, doc))
	}

	if len(out.Conversations) == 0 {
		return nil, domain.ErrNoDocument
	}
	return out, nil
}

// Save rewrites the collection in one transaction: stale documents are
// deleted and every conversation is set with its new position.
func (s *Store) Save(ctx context.Context, c *domain.Collection) error {
	keep := make(map[string]bool, len(c.Conversations))
	for _, conv := range c.Conversations {
		keep[string(conv.ID)] = true
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(s.conversationsCol()).GetAll()
		if err != nil {
			return err
		}

		for _, snap := range existing {
			if !keep[snap.Ref.ID] {
				if err := tx.Delete(snap.Ref); err != nil {
					return err
				}
			}
		}
		for i, conv := range c.Conversations {
			if err := tx.Set(s.conversationDoc(conv.ID), toDoc(conv, i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

var _ domain.ConversationGetter = (*Store)(nil)

// Get reads a single conversation directly, bypassing the full document.
func (s *Store) Get(ctx context.Context, id domain.ConversationID) (domain.Conversation, error) {
	snap, err := s.conversationDoc(id).Get(ctx)
	if err != nil {
		return domain.Conversation{}, getError(err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Conversation{}, fmt.Errorf("firestore Get decode: %w", err)
	}
	return fromDoc(snap.Ref.ID, doc), nil
}

// getError maps a missing document to domain.ErrConversationNotFound.
func getError(err error) error {
	if status.Code(err) == codes.NotFound {
		return domain.ErrConversationNotFound
	}
	return fmt.Errorf("firestore Get: %w", err)
}
