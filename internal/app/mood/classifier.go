// Package mood infers the assistant's displayed mood from chat text using
// keyword tables. The result is cosmetic and best-effort.
package mood

import (
	"strings"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// Rand is the random source used for probabilistic overrides.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// DefaultFlirtyGreetingChance is the share of greetings turned flirty in creator mode.
const DefaultFlirtyGreetingChance = 0.4

type trigger struct {
	mood  domain.Mood
	words []string
}

// userTriggers is scanned in order; on equal scores the earlier entry wins.
var userTriggers = []trigger{
	{domain.MoodHappy, []string{"thank you", "thanks", "awesome", "great", "love it", "perfect", "excellent", "haha", "lol"}},
	{domain.MoodExcited, []string{"wow", "amazing", "incredible", "omg", "yes!", "lets go", "let's go"}},
	{domain.MoodLoving, []string{"love you", "miss you", "care about", "adore"}},
	{domain.MoodPlayful, []string{"hehe", "tease", "silly", "fun", "play"}},
	{domain.MoodConfident, []string{"i know", "definitely", "absolutely", "expert", "professional"}},
	{domain.MoodFocused, []string{"help me", "explain", "how to", "analyze", "work on", "solve"}},
	{domain.MoodThinking, []string{"what if", "consider", "maybe", "possibly", "wondering"}},
	{domain.MoodListening, []string{"tell me", "i feel", "i think", "share", "talk about"}},
	{domain.MoodCalm, []string{"relax", "peace", "calm", "meditate", "breathe"}},
	{domain.MoodWorried, []string{"problem", "issue", "worried", "concerned", "afraid", "scared", "nervous"}},
	{domain.MoodFrustrated, []string{"frustrated", "annoyed", "ugh", "not working", "fed up"}},
	{domain.MoodSad, []string{"sad", "upset", "lonely", "depressed", "crying"}},
	{domain.MoodFlirty, []string{"hey beautiful", "looking good", "gorgeous", "hot", "sexy", "handsome"}},
	{domain.MoodShy, []string{"blush", "shy", "embarrassed"}},
}

var synonyms = map[domain.Mood]domain.Mood{
	domain.MoodExcited:    domain.MoodHappy,
	domain.MoodFrustrated: domain.MoodWorried,
	domain.MoodSad:        domain.MoodWorried,
	domain.MoodShy:        domain.MoodFlirty,
}

// responseTriggers is an if/else chain; the first group present wins.
var responseTriggers = []struct {
	trigger
	privileged bool
}{
	{trigger{domain.MoodWorried, []string{"sorry", "apologize", "my bad"}}, false},
	{trigger{domain.MoodPlayful, []string{"haha", "lol", "😄", "fun"}}, false},
	{trigger{domain.MoodThinking, []string{"let me think", "analyzing", "considering"}}, false},
	{trigger{domain.MoodListening, []string{"i understand", "i hear you", "tell me more"}}, false},
	{trigger{domain.MoodConfident, []string{"definitely", "absolutely", "certainly", "expert"}}, false},
	{trigger{domain.MoodFlirty, []string{"hey you", "handsome", "miss", "waiting"}}, true},
	{trigger{domain.MoodLoving, []string{"love", "care", "special"}}, true},
}

var creatorFallbackMoods = []domain.Mood{
	domain.MoodHappy,
	domain.MoodPlayful,
	domain.MoodFlirty,
	domain.MoodLoving,
}

var greetings = map[string]bool{"hey": true, "hi": true, "hello": true}

// Classifier holds the random source and tunables. The zero value is not
// usable; call NewClassifier.
type Classifier struct {
	rng                  Rand
	flirtyGreetingChance float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithFlirtyGreetingChance overrides DefaultFlirtyGreetingChance.
func WithFlirtyGreetingChance(p float64) Option {
	return func(c *Classifier) {
		if p >= 0 && p <= 1 {
			c.flirtyGreetingChance = p
		}
	}
}

// NewClassifier returns a classifier drawing its overrides from rng.
func NewClassifier(rng Rand, opts ...Option) *Classifier {
	c := &Classifier{
		rng:                  rng,
		flirtyGreetingChance: DefaultFlirtyGreetingChance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromUserText scores the user's message against the keyword table.
// current is returned when nothing displayable matches.
func (c *Classifier) FromUserText(text string, current domain.Mood, privileged bool) domain.Mood {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "be serious") || strings.Contains(lower, "stop playing") {
		return domain.MoodFocused
	}
	if strings.Contains(lower, "be happy") || strings.Contains(lower, "cheer up") {
		return domain.MoodHappy
	}

	if privileged {
		if isGreeting(lower) && c.rng.Float64() < c.flirtyGreetingChance {
			return domain.MoodFlirty
		}
		if strings.Contains(lower, "miss") || strings.Contains(lower, "waiting") {
			return domain.MoodLoving
		}
	}

	best, bestScore := domain.Mood(""), 0
	for _, t := range userTriggers {
		if score := countPresent(lower, t.words); score > bestScore {
			best, bestScore = t.mood, score
		}
	}
	if bestScore == 0 {
		return current
	}

	if mapped, ok := synonyms[best]; ok {
		best = mapped
	}
	if !best.IsDisplayable() {
		return current
	}
	return best
}

// FromAssistantText reads the tone of the generated reply.
func (c *Classifier) FromAssistantText(response, userText string, privileged bool) domain.Mood {
	lower := strings.ToLower(response)

	for _, t := range responseTriggers {
		if t.privileged && !privileged {
			continue
		}
		if countPresent(lower, t.words) > 0 {
			return t.mood
		}
	}

	if strings.Contains(userText, "?") {
		return domain.MoodThinking
	}

	if privileged {
		if c.rng.Float64() < 0.7 {
			return creatorFallbackMoods[c.rng.Intn(len(creatorFallbackMoods))]
		}
		return domain.MoodCalm
	}

	if c.rng.Float64() < 0.5 {
		return domain.MoodHappy
	}
	return domain.MoodCalm
}

// Next applies the update policy: the user-derived mood wins when it moves
// away from current, otherwise the reply decides.
func (c *Classifier) Next(current domain.Mood, userText, response string, privileged bool) domain.Mood {
	fromUser := c.FromUserText(userText, current, privileged)
	fromResponse := c.FromAssistantText(response, userText, privileged)
	if fromUser != current {
		return fromUser
	}
	return fromResponse
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func isGreeting(lower string) bool {
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if greetings[tok] {
			return true
		}
	}
	return false
}
