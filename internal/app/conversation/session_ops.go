package conversation

import (
	"context"
	"errors"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

type UnlockStatus string

const (
	UnlockUnlocked UnlockStatus = "unlocked"
	UnlockAlready  UnlockStatus = "already"
	UnlockInvalid  UnlockStatus = "invalid"
	// UnlockIgnored is returned for short wrong codes, which are treated as
	// still being typed.
	UnlockIgnored UnlockStatus = "ignored"
)

type UnlockResult struct {
	Status  UnlockStatus
	Welcome *domain.Message
}

// Unlock switches the session to creator mode when code matches the
// configured passphrase.
func (s *Service) Unlock(ctx context.Context, id domain.SessionID, code string) (*UnlockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if s.passphrase == "" || code != s.passphrase {
		if len(code) >= unlockMinInvalid {
			log.Info("unlock rejected")
			return &UnlockResult{Status: UnlockInvalid}, nil
		}
		return &UnlockResult{Status: UnlockIgnored}, nil
	}

	if session.Privileged() {
		return &UnlockResult{Status: UnlockAlready}, nil
	}

	session.Mode = domain.ModeCreator
	welcome := domain.Message{Role: domain.RoleAssistant, Content: s.persona.WelcomeMessage()}
	session.Conversation.Append(welcome)

	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("creator mode unlocked")
	return &UnlockResult{Status: UnlockUnlocked, Welcome: &welcome}, nil
}

// ExitCreatorMode returns the session to standard mode.
func (s *Service) ExitCreatorMode(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, "creator mode exited", func(session *domain.Session) error {
		session.Mode = domain.ModeStandard
		return nil
	})
}

// SettingsInput carries optional updates; nil fields are left unchanged.
type SettingsInput struct {
	Personality   *domain.Personality
	Temperature   *float64
	VoiceInput    *bool
	AutoSpeak     *bool
	ShowMoodBadge *bool
}

func (s *Service) UpdateSettings(ctx context.Context, id domain.SessionID, in SettingsInput) (*domain.Session, error) {
	return s.mutate(ctx, id, "settings updated", func(session *domain.Session) error {
		if in.Personality != nil {
			session.Personality = domain.ParsePersonality(string(*in.Personality))
		}
		if in.Temperature != nil {
			session.Temperature = domain.ClampTemperature(*in.Temperature)
		}
		if in.VoiceInput != nil {
			session.VoiceInput = *in.VoiceInput
		}
		if in.AutoSpeak != nil {
			session.AutoSpeak = *in.AutoSpeak
		}
		if in.ShowMoodBadge != nil {
			session.ShowMoodBadge = *in.ShowMoodBadge
		}
		return nil
	})
}

// SaveConversation persists the working copy on demand.
func (s *Service) SaveConversation(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, "conversation saved", func(session *domain.Session) error {
		return s.persist(ctx, session)
	})
}

// NewConversation saves a non-empty working copy, then starts a fresh one.
func (s *Service) NewConversation(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, "new conversation started", func(session *domain.Session) error {
		if len(session.Conversation.Messages) > 0 {
			if err := s.persist(ctx, session); err != nil {
				return err
			}
		}
		s.startFresh(session)
		return nil
	})
}

// ClearConversation drops the working copy without saving it.
func (s *Service) ClearConversation(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, "conversation cleared", func(session *domain.Session) error {
		s.startFresh(session)
		return nil
	})
}

// ResetSession discards all session state. The id stays valid.
func (s *Service) ResetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.mutate(ctx, id, "session reset", func(session *domain.Session) error {
		now := s.now()
		session.Reset(now, s.freshConversation(now, domain.ModeStandard))
		return nil
	})
}

// OpenConversation loads a stored conversation into the working copy.
func (s *Service) OpenConversation(ctx context.Context, id domain.SessionID, convID domain.ConversationID) (*domain.Session, error) {
	return s.mutate(ctx, id, "conversation opened", func(session *domain.Session) error {
		conv, ok := s.history.Get(ctx, convID)
		if !ok {
			return domain.ErrConversationNotFound
		}
		session.Conversation = conv
		session.CurrentMood = conv.LastMood()
		return nil
	})
}

// DeleteConversation removes a stored conversation. Deleting the working
// copy starts a fresh one.
func (s *Service) DeleteConversation(ctx context.Context, id domain.SessionID, convID domain.ConversationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.history.Delete(ctx, convID); err != nil {
		return err
	}

	if id == "" {
		return nil
	}
	session, err := s.sessions.GetSession(id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if session.Conversation.ID == convID {
		s.startFresh(session)
		return s.sessions.UpdateSession(session)
	}
	return nil
}

// ListConversations groups stored conversations by recency.
func (s *Service) ListConversations(ctx context.Context) history.Groups {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.ListGroupedByRecency(ctx, s.now())
}

// Export returns the stored document as indented JSON.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Export(ctx)
}

// ExportFileName is the suggested download name for Export.
func (s *Service) ExportFileName() string {
	return "tessa_conversations_" + s.now().Format("20060102_150405") + ".json"
}

func (s *Service) startFresh(session *domain.Session) {
	session.Conversation = s.freshConversation(s.now(), session.Mode)
	session.CurrentMood = domain.DefaultMood
	session.Status = domain.StatusIdle
}

func (s *Service) mutate(
	ctx context.Context,
	id domain.SessionID,
	msg string,
	fn func(*domain.Session) error,
) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if err := fn(session); err != nil {
		log.Warn("session action failed", "action", msg, "error", err)
		return nil, err
	}
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info(msg, "conversation_id", session.Conversation.ID)
	return snapshot(session), nil
}
