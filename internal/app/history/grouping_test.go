package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

func ids(convs []domain.Conversation) []domain.ConversationID {
	out := make([]domain.ConversationID, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.ID)
	}
	return out
}

func TestGroupByRecency_Buckets(t *testing.T) {
	now := base
	convs := []domain.Conversation{
		conv("today-early", time.Date(2026, 5, 20, 0, 5, 0, 0, time.UTC)),
		conv("future", now.Add(48*time.Hour)),
		conv("yesterday-late", time.Date(2026, 5, 19, 23, 59, 0, 0, time.UTC)),
		conv("week", now.AddDate(0, 0, -5)),
		conv("week-edge", now.AddDate(0, 0, -7)),
		conv("older", now.AddDate(0, 0, -8)),
	}

	g := history.GroupByRecency(convs, now, time.UTC)

	assert.ElementsMatch(t, []domain.ConversationID{"today-early", "future"}, ids(g.Today))
	assert.Equal(t, []domain.ConversationID{"yesterday-late"}, ids(g.Yesterday))
	assert.ElementsMatch(t, []domain.ConversationID{"week", "week-edge"}, ids(g.ThisWeek))
	assert.Equal(t, []domain.ConversationID{"older"}, ids(g.Older))

	total := len(g.Today) + len(g.Yesterday) + len(g.ThisWeek) + len(g.Older)
	assert.Equal(t, len(convs), total, "each conversation lands in exactly one bucket")
}

func TestGroupByRecency_SortsByUpdated(t *testing.T) {
	a := conv("a", base)
	a.Updated = base.Add(1 * time.Hour)
	b := conv("b", base)
	b.Updated = base.Add(3 * time.Hour)
	c := conv("c", base)
	c.Updated = base.Add(2 * time.Hour)

	g := history.GroupByRecency([]domain.Conversation{a, b, c}, base, time.UTC)
	assert.Equal(t, []domain.ConversationID{"b", "c", "a"}, ids(g.Today))
}

func TestGroupByRecency_UsesLocationCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-05-20 16:00 UTC is already 2026-05-21 in Tokyo.
	now := time.Date(2026, 5, 20, 16, 0, 0, 0, time.UTC)
	c := conv("a", time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC))

	assert.Len(t, history.GroupByRecency([]domain.Conversation{c}, now, time.UTC).Today, 1)
	assert.Len(t, history.GroupByRecency([]domain.Conversation{c}, now, tokyo).Yesterday, 1)
}

func TestListGroupedByRecency_ReadsStore(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(&fakeBackend{}, history.WithLocation(time.UTC))

	require.NoError(t, s.Upsert(ctx, conv("new", base)))
	require.NoError(t, s.Upsert(ctx, conv("old", base.AddDate(0, -1, 0))))

	g := s.ListGroupedByRecency(ctx, base)
	assert.Equal(t, []domain.ConversationID{"new"}, ids(g.Today))
	assert.Equal(t, []domain.ConversationID{"old"}, ids(g.Older))
	assert.Empty(t, g.Yesterday)
}
