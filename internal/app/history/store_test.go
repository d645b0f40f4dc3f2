package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

type fakeBackend struct {
	doc     *domain.Collection
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeBackend) Load(context.Context) (*domain.Collection, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.doc == nil {
		return nil, domain.ErrNoDocument
	}
	b, _ := json.Marshal(f.doc)
	var out domain.Collection
	_ = json.Unmarshal(b, &out)
	return &out, nil
}

func (f *fakeBackend) Save(_ context.Context, c *domain.Collection) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	b, _ := json.Marshal(c)
	var out domain.Collection
	_ = json.Unmarshal(b, &out)
	f.doc = &out
	return nil
}

var base = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func conv(id string, created time.Time, msgs ...string) domain.Conversation {
	c := domain.NewConversation(domain.ConversationID(id), created, domain.ModeStandard)
	for _, m := range msgs {
		c.Append(domain.Message{Role: domain.RoleUser, Content: m})
	}
	return c
}

func TestLoad_MissingAndCorruptYieldEmpty(t *testing.T) {
	ctx := context.Background()

	missing := history.NewStore(&fakeBackend{})
	assert.Empty(t, missing.Load(ctx).Conversations)
	assert.NotNil(t, missing.Load(ctx).Conversations)

	corrupt := history.NewStore(&fakeBackend{loadErr: errors.New("invalid character")})
	assert.Empty(t, corrupt.Load(ctx).Conversations)
}

func TestUpsert_PrependsThenReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := history.NewStore(backend)

	require.NoError(t, s.Upsert(ctx, conv("a", base, "one")))
	require.NoError(t, s.Upsert(ctx, conv("b", base, "two")))

	col := s.Load(ctx)
	require.Len(t, col.Conversations, 2)
	assert.Equal(t, domain.ConversationID("b"), col.Conversations[0].ID)

	updated := conv("a", base, "one", "more")
	require.NoError(t, s.Upsert(ctx, updated))

	col = s.Load(ctx)
	require.Len(t, col.Conversations, 2)
	assert.Equal(t, domain.ConversationID("a"), col.Conversations[1].ID)
	assert.Equal(t, 2, col.Conversations[1].MessageCount)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(&fakeBackend{})

	c := conv("a", base, "hello")
	require.NoError(t, s.Upsert(ctx, c))
	first := s.Load(ctx)
	require.NoError(t, s.Upsert(ctx, c))

	assert.Equal(t, first, s.Load(ctx))
}

func TestUpsert_MessageCountMatchesMessages(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(&fakeBackend{})

	c := conv("a", base, "x", "y", "z")
	c.MessageCount = 99
	require.NoError(t, s.Upsert(ctx, c))

	got, ok := s.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, len(got.Messages), got.MessageCount)
}

func TestUpsert_CapsCollection(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(&fakeBackend{}, history.WithMaxConversations(3))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Upsert(ctx, conv(fmt.Sprintf("c%d", i), base)))
	}

	col := s.Load(ctx)
	require.Len(t, col.Conversations, 3)
	assert.Equal(t, domain.ConversationID("c4"), col.Conversations[0].ID)
	assert.Equal(t, domain.ConversationID("c2"), col.Conversations[2].ID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := history.NewStore(backend)

	require.NoError(t, s.Upsert(ctx, conv("a", base)))
	require.NoError(t, s.Upsert(ctx, conv("b", base)))

	before := s.Load(ctx)
	require.NoError(t, s.Delete(ctx, "missing"))
	assert.Equal(t, before, s.Load(ctx))

	require.NoError(t, s.Delete(ctx, "a"))
	_, ok := s.Get(ctx, "a")
	assert.False(t, ok)
	assert.Len(t, s.Load(ctx).Conversations, 1)
}

func TestSave_PropagatesBackendError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := history.NewStore(&fakeBackend{saveErr: boom})

	err := s.Upsert(ctx, conv("a", base))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestExport_IsLoadableDocument(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(&fakeBackend{})
	require.NoError(t, s.Upsert(ctx, conv("a", base, "hello")))

	b, err := s.Export(ctx)
	require.NoError(t, err)

	var col domain.Collection
	require.NoError(t, json.Unmarshal(b, &col))
	require.Len(t, col.Conversations, 1)
	assert.Equal(t, "hello", col.Conversations[0].Title)
	assert.Contains(t, string(b), `"moodHistory"`)
	assert.Contains(t, string(b), `"messageCount"`)
}

func TestDocumentSchema(t *testing.T) {
	b, err := history.DocumentSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(b, &schema))
	assert.Equal(t, "Tessa conversation store", schema["title"])
	assert.Contains(t, string(b), "conversations")
	assert.Contains(t, string(b), "moodHistory")
}

func TestUpsert_ReadFailureKeepsStoredHistory(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := history.NewStore(backend)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Upsert(ctx, conv(id, base, id)))
	}
	saves := backend.saves

	backend.loadErr = errors.New("unavailable")
	err := s.Upsert(ctx, conv("d", base, "d"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Equal(t, saves, backend.saves, "nothing written after a failed read")

	require.Error(t, s.Delete(ctx, "a"))
	assert.Equal(t, saves, backend.saves)

	backend.loadErr = nil
	require.NoError(t, s.Upsert(ctx, conv("d", base, "d")))
	assert.Len(t, s.Load(ctx).Conversations, 4)
}

type getterBackend struct {
	fakeBackend
	gets   int
	getErr error
}

func (g *getterBackend) Get(_ context.Context, id domain.ConversationID) (domain.Conversation, error) {
	g.gets++
	if g.getErr != nil {
		return domain.Conversation{}, g.getErr
	}
	if g.doc != nil {
		for _, c := range g.doc.Conversations {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return domain.Conversation{}, domain.ErrConversationNotFound
}

func TestGet_UsesDirectReadWhenAvailable(t *testing.T) {
	ctx := context.Background()
	backend := &getterBackend{}
	s := history.NewStore(backend)
	require.NoError(t, s.Upsert(ctx, conv("a", base, "hello")))

	got, ok := s.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, 1, got.MessageCount)

	_, ok = s.Get(ctx, "missing")
	assert.False(t, ok)
	assert.Equal(t, 2, backend.gets)

	backend.getErr = errors.New("deadline exceeded")
	got, ok = s.Get(ctx, "a")
	require.True(t, ok, "falls back to the full document")
	assert.Equal(t, domain.ConversationID("a"), got.ID)
}
