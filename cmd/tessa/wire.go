package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/llm"
	firestorestore "github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/storage/firestore"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/storage/jsonfile"
	memstore "github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/storage/memory"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/storage/sqlite"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/conversation"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/mood"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/persona"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/config"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

type app struct {
	svc     *conversation.Service
	store   *history.Store
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			observability.Logger().Warn("close failed", "error", err)
		}
	}
}

func newCompletionClient(ctx context.Context, cfg *config.Config) (domain.CompletionClient, error) {
	log := observability.Logger()

	switch cfg.Provider {
	case config.ProviderMock:
		log.Info("using mock completion client")
		return llm.NewMockLLM(), nil
	case config.ProviderOpenAI:
		log.Info("using OpenAI responses client", "model", cfg.Model)
		return llm.NewResponsesClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case config.ProviderGemini:
		log.Info("using Gemini client", "model", cfg.Model)
		return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderVertex:
		log.Info("using Vertex client", "project", cfg.GCPProject, "model", cfg.Model)
		return llm.NewVertexClient(ctx, cfg.GCPProject, cfg.GCPLocation, cfg.Model)
	case config.ProviderGroq:
		log.Info("using Groq chat client", "model", cfg.Model)
		return llm.NewChatClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (domain.ConversationBackend, func() error, error) {
	log := observability.Logger()
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Info("using in-memory conversation storage")
		return memstore.NewDocumentStore(), noop, nil
	case config.StorageSQLite:
		log.Info("using sqlite conversation storage", "path", cfg.SQLitePath)
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorageFirestore:
		log.Info("using firestore conversation storage", "project", cfg.GCPProject)
		s, err := firestorestore.NewStore(ctx, cfg.GCPProject, cfg.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		log.Info("using json conversation storage", "path", cfg.StorePath)
		return jsonfile.NewStore(cfg.StorePath), noop, nil
	}
}

// newApp wires the controller from configuration.
func newApp(ctx context.Context, cfg *config.Config, speaker domain.Speaker) (*app, error) {
	client, err := newCompletionClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}

	backend, closeBackend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conversation storage: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = closeBackend()
		return nil, err
	}
	store := history.NewStore(backend,
		history.WithMaxConversations(cfg.MaxConversations),
		history.WithLocation(loc),
	)

	profile, err := cfg.OperatorProfile()
	if err != nil {
		_ = closeBackend()
		return nil, err
	}
	operator := persona.DefaultOperator
	if cfg.OperatorName != "" {
		operator.Name = cfg.OperatorName
	}
	if profile != "" {
		operator.Profile = profile
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	opts := []conversation.Option{
		conversation.WithRand(rng),
		conversation.WithClassifier(mood.NewClassifier(rng, mood.WithFlirtyGreetingChance(cfg.FlirtyGreetingChance))),
		conversation.WithPersona(persona.NewBuilder(rng, operator)),
		conversation.WithAvatars(mood.NewAvatarSet(cfg.AssetsDir)),
		conversation.WithPassphrase(cfg.UnlockPassphrase),
	}
	if speaker != nil {
		opts = append(opts, conversation.WithSpeaker(speaker))
	}

	if cfg.UnlockPassphrase == "" {
		observability.Logger().Info("unlock passphrase not configured, creator mode disabled")
	}

	return &app{
		svc:     conversation.NewService(client, store, memstore.NewSessionStore(), opts...),
		store:   store,
		closers: []func() error{closeBackend},
	}, nil
}
