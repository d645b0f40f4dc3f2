package history

import (
	"context"
	"sort"
	"time"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// Groups partitions conversations by the calendar date they were created.
type Groups struct {
	Today     []domain.Conversation `json:"today"`
	Yesterday []domain.Conversation `json:"yesterday"`
	ThisWeek  []domain.Conversation `json:"thisWeek"`
	Older     []domain.Conversation `json:"older"`
}

// ListGroupedByRecency buckets by Created and sorts each bucket by Updated,
// newest first.
func (s *Store) ListGroupedByRecency(ctx context.Context, now time.Time) Groups {
	return GroupByRecency(s.Load(ctx).Conversations, now, s.loc)
}

// GroupByRecency is the pure form of ListGroupedByRecency.
func GroupByRecency(convs []domain.Conversation, now time.Time, loc *time.Location) Groups {
	if loc == nil {
		loc = time.Local
	}

	today := dayStart(now, loc)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)

	g := Groups{
		Today:     []domain.Conversation{},
		Yesterday: []domain.Conversation{},
		ThisWeek:  []domain.Conversation{},
		Older:     []domain.Conversation{},
	}

	for _, c := range convs {
		created := dayStart(c.Created, loc)
		switch {
		case !created.Before(today):
			g.Today = append(g.Today, c)
		case created.Equal(yesterday):
			g.Yesterday = append(g.Yesterday, c)
		case !created.Before(weekAgo):
			g.ThisWeek = append(g.ThisWeek, c)
		default:
			g.Older = append(g.Older, c)
		}
	}

	for _, bucket := range [][]domain.Conversation{g.Today, g.Yesterday, g.ThisWeek, g.Older} {
		sortByUpdated(bucket)
	}
	return g
}

func sortByUpdated(convs []domain.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].Updated.After(convs[j].Updated)
	})
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
