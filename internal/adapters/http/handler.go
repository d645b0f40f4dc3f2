package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/conversation"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/mood"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

type Server struct {
	svc     *conversation.Service
	limiter *RateLimiter
}

type ServerOption func(*Server)

// WithRateLimit limits message submissions per session.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) { s.limiter = NewRateLimiter(rps, burst) }
}

func NewServer(svc *conversation.Service, opts ...ServerOption) http.Handler {
	s := &Server{svc: svc, limiter: NewRateLimiter(0, 1)}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}[/...] → session actions
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// /conversations → grouped history; /conversations/{id} → delete
	mux.HandleFunc("/conversations", s.handleConversations)
	mux.HandleFunc("/conversations/", s.handleConversationWithID)

	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/export/schema", s.handleSchema)

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Personality string `json:"personality,omitempty"`
}

type sessionResponse struct {
	ID              string              `json:"id"`
	Started         time.Time           `json:"started"`
	Mode            string              `json:"mode"`
	Personality     string              `json:"personality"`
	CurrentMood     string              `json:"current_mood"`
	MoodDescription string              `json:"mood_description"`
	Avatar          string              `json:"avatar,omitempty"`
	Status          string              `json:"status"`
	Temperature     float64             `json:"temperature"`
	VoiceInput      bool                `json:"voice_input"`
	AutoSpeak       bool                `json:"auto_speak"`
	ShowMoodBadge   bool                `json:"show_mood_badge"`
	TokensUsed      int                 `json:"tokens_used"`
	Conversation    domain.Conversation `json:"conversation"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      domain.Message `json:"user_message"`
	AssistantMessage domain.Message `json:"assistant_message"`
	Mood             string         `json:"mood"`
	MoodDescription  string         `json:"mood_description"`
	Avatar           string         `json:"avatar,omitempty"`
	Status           string         `json:"status"`
	TokensUsed       int            `json:"tokens_used"`
	MessageCount     int            `json:"message_count"`
	CompletionFailed bool           `json:"completion_failed"`
	Warning          string         `json:"warning,omitempty"`
}

type unlockRequest struct {
	Code string `json:"code"`
}

type unlockResponse struct {
	Status  string          `json:"status"`
	Welcome *domain.Message `json:"welcome,omitempty"`
}

type settingsRequest struct {
	Personality   *string  `json:"personality,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	VoiceInput    *bool    `json:"voice_input,omitempty"`
	AutoSpeak     *bool    `json:"auto_speak,omitempty"`
	ShowMoodBadge *bool    `json:"show_mood_badge,omitempty"`
}

type openConversationRequest struct {
	ID string `json:"id"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}, /sessions/{id}/{action}, /sessions/{id}/conversation/{action}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])

	if id == "" {
		http.NotFound(w, r)
		return
	}

	r = r.WithContext(observability.WithSessionID(r.Context(), string(id)))

	switch {
	case len(parts) == 1:
		// /sessions/{id}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetSession(w, r, id)

	case len(parts) == 2 && parts[1] == "settings":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		s.handleSettings(w, r, id)

	case len(parts) == 2:
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "messages":
			s.handleSendMessage(w, r, id)
		case "unlock":
			s.handleUnlock(w, r, id)
		case "lock":
			s.respondSession(w, r)(s.svc.ExitCreatorMode(r.Context(), id))
		default:
			http.NotFound(w, r)
		}

	case len(parts) == 3 && parts[1] == "conversation":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleConversationAction(w, r, id, parts[2])

	default:
		http.NotFound(w, r)
	}
}

// /conversations
func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.ListConversations(r.Context()))
}

// /conversations/{id}?session_id=...
func (s *Server) handleConversationWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/conversations/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	sessionID := domain.SessionID(r.URL.Query().Get("session_id"))
	if err := s.svc.DeleteConversation(r.Context(), sessionID, domain.ConversationID(id)); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	session, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{
		Personality: domain.Personality(strings.ToLower(strings.TrimSpace(req.Personality))),
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.toSessionResponse(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	s.respondSession(w, r)(s.svc.GetSession(r.Context(), id))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if !s.limiter.Allow(string(id)) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "too many messages, slow down",
		})
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: id,
		Text:      req.Text,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage:      out.UserMessage,
		AssistantMessage: out.AssistantMessage,
		Mood:             string(out.Mood),
		MoodDescription:  out.MoodDescription,
		Avatar:           out.Avatar,
		Status:           string(out.Status),
		TokensUsed:       out.TokensUsed,
		MessageCount:     out.MessageCount,
		CompletionFailed: out.CompletionFailed,
		Warning:          out.Warning,
	})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := s.svc.Unlock(r.Context(), id, req.Code)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Status == conversation.UnlockInvalid {
		status = http.StatusForbidden
	}
	writeJSON(w, status, unlockResponse{Status: string(res.Status), Welcome: res.Welcome})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	in := conversation.SettingsInput{
		Temperature:   req.Temperature,
		VoiceInput:    req.VoiceInput,
		AutoSpeak:     req.AutoSpeak,
		ShowMoodBadge: req.ShowMoodBadge,
	}
	if req.Personality != nil {
		p := domain.Personality(strings.ToLower(strings.TrimSpace(*req.Personality)))
		in.Personality = &p
	}

	s.respondSession(w, r)(s.svc.UpdateSettings(r.Context(), id, in))
}

func (s *Server) handleConversationAction(w http.ResponseWriter, r *http.Request, id domain.SessionID, action string) {
	ctx := r.Context()
	respond := s.respondSession(w, r)

	switch action {
	case "new":
		respond(s.svc.NewConversation(ctx, id))
	case "save":
		respond(s.svc.SaveConversation(ctx, id))
	case "clear":
		respond(s.svc.ClearConversation(ctx, id))
	case "reset":
		respond(s.svc.ResetSession(ctx, id))
	case "open":
		var req openConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			badRequest(w, "id is required")
			return
		}
		respond(s.svc.OpenConversation(ctx, id, domain.ConversationID(req.ID)))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	b, err := s.svc.Export(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.svc.ExportFileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	b, err := history.DocumentSchema()
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

// respondSession writes a session view or maps the service error.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request) func(*domain.Session, error) {
	return func(session *domain.Session, err error) {
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.toSessionResponse(session))
	}
}

func (s *Server) toSessionResponse(session *domain.Session) sessionResponse {
	avatar, _ := s.svc.Avatar(session.CurrentMood)
	return sessionResponse{
		ID:              string(session.ID),
		Started:         session.Started,
		Mode:            string(session.Mode),
		Personality:     string(session.Personality),
		CurrentMood:     string(session.CurrentMood),
		MoodDescription: mood.Describe(session.CurrentMood),
		Avatar:          avatar,
		Status:          string(session.Status),
		Temperature:     session.Temperature,
		VoiceInput:      session.VoiceInput,
		AutoSpeak:       session.AutoSpeak,
		ShowMoodBadge:   session.ShowMoodBadge,
		TokensUsed:      session.TokensUsed,
		Conversation:    session.Conversation,
	}
}

func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, domain.ErrConversationNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "conversation not found"})
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		internalError(w, err)
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, _ error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
