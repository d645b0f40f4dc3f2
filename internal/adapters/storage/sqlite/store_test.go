package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/storage/sqlite"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

func open(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "tessa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_EmptyDatabase(t *testing.T) {
	_, err := open(t).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestSave_PreservesOrderAndContent(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	a := domain.NewConversation("a", at, domain.ModeStandard)
	a.Append(domain.Message{Role: domain.RoleUser, Content: "first"})
	b := domain.NewConversation("b", at.Add(time.Hour), domain.ModeCreator)

	require.NoError(t, s.Save(ctx, &domain.Collection{Conversations: []domain.Conversation{b, a}}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Conversations, 2)
	assert.Equal(t, domain.ConversationID("b"), got.Conversations[0].ID)
	assert.Equal(t, domain.ModeCreator, got.Conversations[0].Mode)
	assert.Equal(t, "first", got.Conversations[1].Messages[0].Content)

	require.NoError(t, s.Save(ctx, &domain.Collection{Conversations: []domain.Conversation{a}}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Conversations, 1)
}

func TestWithHistoryStore(t *testing.T) {
	ctx := context.Background()
	store := history.NewStore(open(t))

	c := domain.NewConversation("c1", time.Now(), domain.ModeStandard)
	c.Append(domain.Message{Role: domain.RoleUser, Content: "hi"})
	require.NoError(t, store.Upsert(ctx, c))
	require.NoError(t, store.Delete(ctx, "c1"))

	assert.Empty(t, store.Load(ctx).Conversations)
}
