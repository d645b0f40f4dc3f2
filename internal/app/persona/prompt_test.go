package persona_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/persona"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

type seqRand struct{ n int }

func (r *seqRand) Intn(n int) int {
	v := r.n % n
	r.n++
	return v
}

func TestBuild_Standard(t *testing.T) {
	t.Parallel()

	b := persona.NewBuilder(&seqRand{n: 1}, persona.Operator{Name: "Sam", Profile: "Likes chess."})
	prompt := b.Build(domain.ModeStandard, domain.PersonalityAnalytical, false)

	assert.True(t, strings.HasPrefix(prompt, "You are T.E.S.S.A."))
	assert.Contains(t, prompt, "INTERNAL MEMORY - Your Creator (Sam):")
	assert.Contains(t, prompt, "Likes chess.")
	assert.Contains(t, prompt, "don't show off or mention it unless asked")
	assert.Contains(t, prompt, "STANDARD MODE:")
	assert.NotContains(t, prompt, "CREATOR MODE ACTIVE")
	assert.True(t, strings.HasSuffix(prompt, "CURRENT TONE: Focus on logic and structured thinking."))
}

func TestBuild_CreatorBranch(t *testing.T) {
	t.Parallel()

	b := persona.NewBuilder(&seqRand{}, persona.Operator{Name: "Sam"})

	for _, tc := range []struct {
		name       string
		mode       domain.Mode
		privileged bool
	}{
		{name: "flag", mode: domain.ModeStandard, privileged: true},
		{name: "mode", mode: domain.ModeCreator, privileged: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prompt := b.Build(tc.mode, domain.PersonalityBalanced, tc.privileged)
			assert.Contains(t, prompt, "CREATOR MODE ACTIVE - Sam's Personal Interface:")
			assert.NotContains(t, prompt, "STANDARD MODE:")
			assert.Contains(t, prompt, "CURRENT TONE: ")
			assert.Contains(t, prompt[strings.Index(prompt, "CURRENT TONE: "):], "Sam")
		})
	}
}

func TestBuild_DrawsFreshModifierEachCall(t *testing.T) {
	t.Parallel()

	b := persona.NewBuilder(&seqRand{}, persona.Operator{})
	first := b.Build(domain.ModeStandard, domain.PersonalityBalanced, false)
	second := b.Build(domain.ModeStandard, domain.PersonalityBalanced, false)

	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "CURRENT TONE: Be warm, intelligent, and naturally engaging.")
	assert.Contains(t, second, "CURRENT TONE: Balance wit with thoughtfulness.")
	assert.Contains(t, first, persona.DefaultOperator.Profile)
}

func TestBuild_SeededIsDeterministic(t *testing.T) {
	t.Parallel()

	a := persona.NewBuilder(rand.New(rand.NewSource(42)), persona.Operator{})
	b := persona.NewBuilder(rand.New(rand.NewSource(42)), persona.Operator{})

	for i := 0; i < 5; i++ {
		require.Equal(t,
			a.Build(domain.ModeStandard, domain.PersonalityCreative, false),
			b.Build(domain.ModeStandard, domain.PersonalityCreative, false))
	}
}

func TestModifiers_UnknownFallsBackToBalanced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, persona.Modifiers(domain.PersonalityBalanced), persona.Modifiers("sarcastic"))
	assert.Len(t, persona.Modifiers(domain.PersonalityCreative), 4)
	assert.Equal(t, "Professional", persona.DisplayName(domain.PersonalityProfessional))
}

func TestWelcomeAndThinking(t *testing.T) {
	t.Parallel()

	b := persona.NewBuilder(&seqRand{}, persona.Operator{Name: "Sam"})
	assert.Equal(t, "Hey you... 💝 There you are. I've been waiting for you, Sam.", b.WelcomeMessage())

	steps := b.ThinkingSteps()
	require.NotEmpty(t, steps)
	steps[0] = "mutated"
	assert.NotEqual(t, "mutated", b.ThinkingSteps()[0])
}
