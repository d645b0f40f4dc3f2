package conversation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/mood"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/persona"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

const (
	// HistoryLimit is how many trailing messages are sent with each completion.
	HistoryLimit = 50

	TopP             = 0.95
	MinMaxTokens     = 150
	MaxMaxTokens     = 350
	minSampleTemp    = 0.7
	maxSampleTemp    = 1.3
	tempJitterBelow  = 0.1
	tempJitterAbove  = 0.15
	unlockMinInvalid = 5
)

// Rand drives sampling jitter and is shared with the classifier and the
// persona builder. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Service is the chat session controller. It serialises all turns: the
// service has a single logical operator but the HTTP transport is concurrent.
type Service struct {
	mu sync.Mutex

	llm      domain.CompletionClient
	history  *history.Store
	sessions domain.SessionStore

	classifier *mood.Classifier
	persona    *persona.Builder
	avatars    *mood.AvatarSet
	speaker    domain.Speaker

	rng        Rand
	now        func() time.Time
	newID      func() string
	passphrase string
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the source for sampling jitter and token budgets.
func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides the uuid generator used for session and conversation ids.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithClassifier replaces the default mood classifier.
func WithClassifier(c *mood.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithPersona replaces the default prompt builder.
func WithPersona(b *persona.Builder) Option {
	return func(s *Service) { s.persona = b }
}

// WithAvatars enables avatar resolution in turn output.
func WithAvatars(a *mood.AvatarSet) Option {
	return func(s *Service) { s.avatars = a }
}

// WithSpeaker enables the speech step after each reply.
func WithSpeaker(sp domain.Speaker) Option {
	return func(s *Service) { s.speaker = sp }
}

// WithPassphrase sets the creator-mode unlock code. Empty disables unlocking.
func WithPassphrase(code string) Option {
	return func(s *Service) { s.passphrase = code }
}

// NewService wires the controller. Missing collaborators get defaults.
func NewService(
	llm domain.CompletionClient,
	store *history.Store,
	sessions domain.SessionStore,
	opts ...Option,
) *Service {
	s := &Service{
		llm:      llm,
		history:  store,
		sessions: sessions,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.classifier == nil {
		s.classifier = mood.NewClassifier(s.rng)
	}
	if s.persona == nil {
		s.persona = persona.NewBuilder(s.rng, persona.DefaultOperator)
	}
	return s
}

type StartSessionInput struct {
	Personality domain.Personality
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := domain.NewSession(domain.SessionID(s.newID()), now, s.freshConversation(now, domain.ModeStandard))
	if in.Personality != "" {
		session.Personality = domain.ParsePersonality(string(in.Personality))
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started", "personality", session.Personality)
	return snapshot(session), nil
}

// GetSession returns a copy of the live session.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserMessage      domain.Message
	AssistantMessage domain.Message
	Mood             domain.Mood
	MoodDescription  string
	Avatar           string
	HasAvatar        bool
	Status           domain.Status
	TokensUsed       int
	MessageCount     int
	CompletionFailed bool
	// Warning is set when the turn could not be persisted.
	Warning string
}

// SendMessage runs one full turn. A completion failure is not an error: it
// becomes the assistant message. Only an unknown session fails the call.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"conversation_id", session.Conversation.ID,
		"mode", session.Mode,
	)
	log.Info("sending message", "length", len(in.Text))

	userMsg := domain.Message{Role: domain.RoleUser, Content: in.Text}
	session.Conversation.Append(userMsg)
	session.Status = domain.StatusThinking

	req := s.completionRequest(session)

	out := &SendMessageOutput{UserMessage: userMsg}

	var reply string
	res, err := s.llm.Complete(ctx, req)
	if err != nil {
		log.Error("completion failed", "error", err)
		reply = fmt.Sprintf("⚠️ Processing error: %v\n\nPlease try again or adjust your query.", err)
		out.CompletionFailed = true
	} else {
		reply = res.Content
		session.TokensUsed += res.TotalTokens

		next := s.classifier.Next(session.CurrentMood, in.Text, reply, session.Privileged())
		session.CurrentMood = next
		if session.Conversation.PushMood(next) {
			log.Debug("mood changed", "mood", next)
		}
	}

	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: reply}
	session.Conversation.Append(assistantMsg)
	session.Status = domain.StatusSpeaking

	if err := s.persist(ctx, session); err != nil {
		log.Warn("turn not persisted", "error", err)
		out.Warning = fmt.Sprintf("conversation not saved: %v", err)
	}

	if session.AutoSpeak && s.speaker != nil && !out.CompletionFailed {
		if err := s.speaker.Speak(ctx, reply); err != nil {
			log.Debug("speech failed", "error", err)
		}
	}
	session.Status = domain.StatusIdle

	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	out.AssistantMessage = assistantMsg
	out.Mood = session.CurrentMood
	out.MoodDescription = mood.Describe(session.CurrentMood)
	out.Avatar, out.HasAvatar = s.Avatar(session.CurrentMood)
	out.Status = session.Status
	out.TokensUsed = session.TokensUsed
	out.MessageCount = session.Conversation.MessageCount

	log.Info("send message completed",
		"mood", out.Mood,
		"message_count", out.MessageCount,
		"completion_failed", out.CompletionFailed,
	)
	return out, nil
}

func (s *Service) completionRequest(session *domain.Session) domain.CompletionRequest {
	system := domain.Message{
		Role:    domain.RoleSystem,
		Content: s.persona.Build(session.Mode, session.Personality, session.Privileged()),
	}

	msgs := session.Conversation.Messages
	if len(msgs) > HistoryLimit {
		msgs = msgs[len(msgs)-HistoryLimit:]
	}

	all := make([]domain.Message, 0, len(msgs)+1)
	all = append(all, system)
	all = append(all, msgs...)

	return domain.CompletionRequest{
		Messages:    all,
		Temperature: float32(s.sampleTemperature(session.Temperature)),
		TopP:        TopP,
		MaxTokens:   MinMaxTokens + s.rng.Intn(MaxMaxTokens-MinMaxTokens+1),
	}
}

func (s *Service) sampleTemperature(base float64) float64 {
	t := base - tempJitterBelow + s.rng.Float64()*(tempJitterBelow+tempJitterAbove)
	if t < minSampleTemp {
		return minSampleTemp
	}
	if t > maxSampleTemp {
		return maxSampleTemp
	}
	return t
}

// Avatar resolves the image for m; ok is false when no asset is available.
func (s *Service) Avatar(m domain.Mood) (string, bool) {
	if s.avatars == nil {
		return "", false
	}
	return s.avatars.Resolve(m)
}

// ThinkingSteps returns a phrase set for the artificial "thinking" display.
func (s *Service) ThinkingSteps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona.ThinkingSteps()
}

// persist stamps the working copy and upserts it.
func (s *Service) persist(ctx context.Context, session *domain.Session) error {
	session.Conversation.Updated = s.now()
	session.Conversation.Mode = session.Mode
	return s.history.Upsert(ctx, session.Conversation)
}

func (s *Service) freshConversation(now time.Time, mode domain.Mode) domain.Conversation {
	return domain.NewConversation(domain.ConversationID(s.newID()), now, mode)
}

func (s *Service) lookup(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("session lookup failed", "session_id", id, "error", err)
		return nil, err
	}
	return session, nil
}

func snapshot(session *domain.Session) *domain.Session {
	cp := *session
	cp.Conversation = session.Conversation.Clone()
	return &cp
}
