package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

var t0 = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestNewConversation(t *testing.T) {
	c := domain.NewConversation("c1", t0, domain.ModeStandard)

	assert.Equal(t, domain.DefaultTitle, c.Title)
	assert.Equal(t, []domain.Mood{domain.MoodCalm}, c.MoodHistory)
	assert.NotNil(t, c.Messages)
	assert.Zero(t, c.MessageCount)
	assert.Equal(t, t0, c.Created)
	assert.Equal(t, t0, c.Updated)
}

func TestAppend_KeepsCountAndDerivesTitle(t *testing.T) {
	c := domain.NewConversation("c1", t0, domain.ModeStandard)

	c.Append(domain.Message{Role: domain.RoleAssistant, Content: "welcome"})
	assert.Equal(t, domain.DefaultTitle, c.Title)

	long := strings.Repeat("abcdefghij", 5)
	c.Append(domain.Message{Role: domain.RoleUser, Content: long})
	c.Append(domain.Message{Role: domain.RoleUser, Content: "second question"})

	assert.Equal(t, 3, c.MessageCount)
	assert.Equal(t, len(c.Messages), c.MessageCount)
	assert.Equal(t, long[:40]+"...", c.Title)
}

func TestSetTitle_LocksAgainstDerivation(t *testing.T) {
	c := domain.NewConversation("c1", t0, domain.ModeStandard)
	c.SetTitle("  Trip planning ")
	c.Append(domain.Message{Role: domain.RoleUser, Content: "where should I go"})
	assert.Equal(t, "Trip planning", c.Title)

	c.SetTitle("   ")
	assert.Equal(t, "Trip planning", c.Title)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "short", want: "short"},
		{in: "  spaced \n\t out  ", want: "spaced out"},
		{in: "", want: domain.DefaultTitle},
		{in: strings.Repeat("é", 41), want: strings.Repeat("é", 40) + "..."},
		{in: strings.Repeat("x", 40), want: strings.Repeat("x", 40)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, domain.DeriveTitle(tc.in), "input %q", tc.in)
	}
}

func TestPushMood(t *testing.T) {
	c := domain.NewConversation("c1", t0, domain.ModeStandard)

	assert.False(t, c.PushMood(domain.MoodCalm), "repeat of latest is skipped")
	assert.True(t, c.PushMood(domain.MoodHappy))
	assert.Equal(t, domain.MoodHappy, c.LastMood())

	moods := []domain.Mood{domain.MoodFocused, domain.MoodThinking}
	for i := 0; i < 30; i++ {
		c.PushMood(moods[i%2])
	}
	require.Len(t, c.MoodHistory, domain.MaxMoodHistory)
	assert.Equal(t, domain.MoodThinking, c.LastMood())
	assert.Equal(t, domain.MoodFocused, c.MoodHistory[0])
}

func TestNormalize(t *testing.T) {
	c := domain.Conversation{
		ID:           "c1",
		Messages:     []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
		MessageCount: 7,
	}
	for i := 0; i < 25; i++ {
		c.MoodHistory = append(c.MoodHistory, domain.MoodHappy)
	}

	c.Normalize()

	assert.Equal(t, 1, c.MessageCount)
	assert.Len(t, c.MoodHistory, domain.MaxMoodHistory)
	assert.Equal(t, domain.ModeStandard, c.Mode)

	var empty domain.Conversation
	empty.Normalize()
	assert.NotNil(t, empty.Messages)
	assert.Equal(t, []domain.Mood{domain.DefaultMood}, empty.MoodHistory)
}

func TestClone_IsDeep(t *testing.T) {
	c := domain.NewConversation("c1", t0, domain.ModeStandard)
	c.Append(domain.Message{Role: domain.RoleUser, Content: "hi"})

	cp := c.Clone()
	cp.Messages[0].Content = "changed"
	cp.MoodHistory[0] = domain.MoodSad

	assert.Equal(t, "hi", c.Messages[0].Content)
	assert.Equal(t, domain.MoodCalm, c.MoodHistory[0])
}

func TestCollectionIndex(t *testing.T) {
	col := domain.Collection{Conversations: []domain.Conversation{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, col.Index("b"))
	assert.Equal(t, -1, col.Index("z"))
}
