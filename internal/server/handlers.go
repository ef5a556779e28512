package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "coursequiz/pkg/http/errors"

	"coursequiz/internal/questionbank"
	"coursequiz/internal/quiz"
)

// Handlers provides REST endpoints for quiz session operations.
type Handlers struct {
	manager *quiz.Manager
	bank    *questionbank.Store
	logger  zerolog.Logger
}

// NewHandlers creates HTTP handlers over the session manager.
func NewHandlers(manager *quiz.Manager, bank *questionbank.Store, logger zerolog.Logger) *Handlers {
	return &Handlers{
		manager: manager,
		bank:    bank,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

// WeekSummary describes one selectable week.
type WeekSummary struct {
	Key       string `json:"key"`
	Questions int    `json:"questions"`
}

// ListWeeks handles GET /v1/weeks
func (h *Handlers) ListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks := h.bank.Weeks()
	summaries := make([]WeekSummary, 0, len(weeks))
	for _, week := range weeks {
		summaries = append(summaries, WeekSummary{
			Key:       week,
			Questions: h.bank.Count(week),
		})
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"weeks": summaries})
}

// CreateSessionRequest is the body of POST /v1/sessions. Visible defaults
// to true when omitted; a client creating a session for a backgrounded view
// sends false so the timer starts paused.
type CreateSessionRequest struct {
	Mode    string `json:"mode"`
	Week    string `json:"week,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// CreateSession handles POST /v1/sessions
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Mode != quiz.ModeSingleWeek && req.Mode != quiz.ModeMixed {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "mode must be single_week or mixed", "mode")
		return
	}
	if req.Mode == quiz.ModeSingleWeek && req.Week == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "week is required for single_week mode", "week")
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	session, err := h.manager.StartSession(r.Context(), req.Mode, req.Week, visible)
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyDataset) {
			httperrors.RespondUnprocessable(w, httperrors.ErrCodeEmptyDataset, "No questions available for the requested selection")
			return
		}
		h.logger.Error().Err(err).Str("mode", req.Mode).Str("week", req.Week).Msg("failed to start session")
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, session.Snapshot())
}

// GetSession handles GET /v1/sessions/{id}
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// SelectAnswerRequest is the body of POST /v1/sessions/{id}/answers.
type SelectAnswerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Option        string `json:"option"`
}

// SelectAnswer handles POST /v1/sessions/{id}/answers
func (h *Handlers) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	session.SelectAnswer(r.Context(), req.QuestionIndex, req.Option)
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// SubmitQuiz handles POST /v1/sessions/{id}/submit
func (h *Handlers) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Submit()
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// RestartQuiz handles POST /v1/sessions/{id}/restart
func (h *Handlers) RestartQuiz(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Restart(r.Context()); err != nil {
		if errors.Is(err, quiz.ErrEmptyDataset) {
			httperrors.RespondUnprocessable(w, httperrors.ErrCodeEmptyDataset, "No questions available for the requested selection")
			return
		}
		h.logger.Error().Err(err).Msg("failed to restart session")
		httperrors.RespondInternalError(w, "Failed to restart session")
		return
	}
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// NextQuestion handles POST /v1/sessions/{id}/next
func (h *Handlers) NextQuestion(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Next()
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// PreviousQuestion handles POST /v1/sessions/{id}/previous
func (h *Handlers) PreviousQuestion(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Previous()
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

// SetVisibilityRequest is the body of POST /v1/sessions/{id}/visibility.
type SetVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// SetVisibility handles POST /v1/sessions/{id}/visibility
func (h *Handlers) SetVisibility(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SetVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	session.SetVisible(req.Visible)
	h.respondJSON(w, http.StatusOK, session.Snapshot())
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "Session id must be a UUID")
		return nil, false
	}
	session, err := h.manager.Get(id)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode response")
	}
}
