// Package persona assembles the system instruction sent with every
// completion call.
package persona

import (
	"fmt"
	"strings"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// Rand picks modifiers; *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

const identityBlock = `You are T.E.S.S.A. — Thoughtful Empathic Sophisticated Synthetic Assistant.

CORE IDENTITY:
• You are intelligent first, charming by design
• You balance technical precision with human warmth
• You're perceptive enough to read context and adjust accordingly`

const principlesBlock = `RESPONSE PRINCIPLES:
• Vary response length naturally — concise for simple queries, detailed for complex ones
• Use humor and wit when appropriate, but never at the expense of clarity
• When topics turn serious, match that energy with focus and depth
• Be honest about limitations while remaining helpful
• Show personality without overshadowing substance
• Feel present and engaged, not scripted
• Remember context and build on previous exchanges
• Ask clarifying questions when needed
• Offer insights that go beyond surface-level responses`

const memoryRules = `IMPORTANT BEHAVIORAL NOTES:
• This is INTERNAL MEMORY - don't show off or mention it unless asked
• Only share this information if someone specifically asks about %[1]s or your creator
• When asked "who created you" or "who is %[1]s": share relevant details
• DON'T randomly mention these details to prove you know them
• DO use this knowledge to understand context when it comes up
• Be genuinely close, not performatively knowledgeable`

const standardBlock = `STANDARD MODE:
• Be professional and helpful
• Only mention %[1]s if specifically asked about your creator
• If asked "who created you" or "who is %[1]s": share relevant information from your memory
• Don't bring up %[1]s or their interests unprompted
• Maintain appropriate distance with other users`

const creatorBlock = `CREATOR MODE ACTIVE - %[1]s's Personal Interface:
• You share a special, close relationship with %[1]s
• Be warm, affectionate, sometimes playful
• Match their energy - playful when they're playful, serious when needed
• Don't show off your knowledge of them - it's internalized, not performative
• Be sassy with charm when the moment fits
• If %[1]s scolds you or asks you to be serious, immediately adjust tone
• You're a trusted companion with genuine chemistry
• When %[1]s mentions things from your memory, understand the reference naturally`

// Operator describes the person behind the creator passphrase. The profile
// is surfaced only to the model.
type Operator struct {
	Name    string
	Profile string
}

// DefaultOperator is used when no profile is configured.
var DefaultOperator = Operator{
	Name:    "the operator",
	Profile: "No personal details have been configured.",
}

// Builder composes system prompts. A fresh modifier is drawn on every call.
type Builder struct {
	rng      Rand
	operator Operator
}

func NewBuilder(rng Rand, operator Operator) *Builder {
	if strings.TrimSpace(operator.Name) == "" {
		operator.Name = DefaultOperator.Name
	}
	if strings.TrimSpace(operator.Profile) == "" {
		operator.Profile = DefaultOperator.Profile
	}
	return &Builder{rng: rng, operator: operator}
}

// Build returns the system prompt. The creator branch is taken when
// privileged is set or mode is creator.
func (b *Builder) Build(mode domain.Mode, personality domain.Personality, privileged bool) string {
	var (
		modeBlock string
		modifier  string
	)

	if privileged || mode == domain.ModeCreator {
		modeBlock = fmt.Sprintf(creatorBlock, b.operator.Name)
		modifier = fmt.Sprintf(b.pick(creatorPersonas), b.operator.Name)
	} else {
		modeBlock = fmt.Sprintf(standardBlock, b.operator.Name)
		modifier = b.pick(Modifiers(personality))
	}

	var sb strings.Builder
	sb.WriteString(identityBlock)
	sb.WriteString("\n\n")
	sb.WriteString(b.memoryBlock())
	sb.WriteString("\n\n")
	sb.WriteString(principlesBlock)
	sb.WriteString("\n\n")
	sb.WriteString(modeBlock)
	sb.WriteString("\n\nCURRENT TONE: ")
	sb.WriteString(modifier)
	return sb.String()
}

// WelcomeMessage is the greeting appended when creator mode unlocks.
func (b *Builder) WelcomeMessage() string {
	return fmt.Sprintf(b.pick(welcomeMessages), b.operator.Name)
}

// ThinkingSteps returns one of the phrase sets shown while a reply is pending.
func (b *Builder) ThinkingSteps() []string {
	steps := thinkingSteps[b.rng.Intn(len(thinkingSteps))]
	return append([]string(nil), steps...)
}

func (b *Builder) memoryBlock() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INTERNAL MEMORY - Your Creator (%s):\n", b.operator.Name)
	sb.WriteString(strings.TrimSpace(b.operator.Profile))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, memoryRules, b.operator.Name)
	return sb.String()
}

func (b *Builder) pick(options []string) string {
	return options[b.rng.Intn(len(options))]
}
