package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	httperrors "coursequiz/pkg/http/errors"
	"coursequiz/pkg/http/ws"

	"coursequiz/internal/quiz"
)

// snapshotPushInterval is how often the live session state is pushed to a
// connected client between inbound operations.
const snapshotPushInterval = time.Second

// SessionWS handles GET /ws/sessions/{id}: upgrades to WebSocket, streams
// session snapshots once per second, and dispatches client operations
// (answer, navigation, visibility, submit) onto the session.
func (h *Handlers) SessionWS(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "Session id must be a UUID")
		return
	}
	session, err := h.manager.Get(id)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found")
		return
	}

	rawConn, err := WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	logger := h.logger.With().Str("session_id", id.String()).Logger()
	conn := ws.NewConnection(rawConn, logger)
	go conn.WritePump()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.ReadPump(func(msg ws.Message) error {
			return h.dispatch(r.Context(), session, conn, msg)
		})
	}()

	h.pushSnapshot(session, conn)

	ticker := time.NewTicker(snapshotPushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			conn.Close()
			return
		case <-ticker.C:
			if err := h.pushSnapshot(session, conn); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (h *Handlers) dispatch(ctx context.Context, session *quiz.Session, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeVisibility:
		var payload ws.VisibilityPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return h.sendError(conn, httperrors.ErrCodeInvalidPayload, "Invalid visibility payload")
		}
		session.SetVisible(payload.Visible)
	case ws.TypeSelectAnswer:
		var payload ws.SelectAnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return h.sendError(conn, httperrors.ErrCodeInvalidPayload, "Invalid answer payload")
		}
		session.SelectAnswer(ctx, payload.QuestionIndex, payload.Option)
	case ws.TypeNextQuestion:
		session.Next()
	case ws.TypePreviousQuestion:
		session.Previous()
	case ws.TypeSubmitQuiz:
		session.Submit()
	case ws.TypeRestartQuiz:
		if err := session.Restart(ctx); err != nil {
			return h.sendError(conn, httperrors.ErrCodeEmptyDataset, "No questions available")
		}
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	default:
		return h.sendError(conn, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type %q", msg.Type))
	}

	return h.pushSnapshot(session, conn)
}

func (h *Handlers) pushSnapshot(session *quiz.Session, conn *ws.Connection) error {
	msg, err := ws.NewMessage(ws.TypeSessionState, session.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return conn.Send(msg)
}

func (h *Handlers) sendError(conn *ws.Connection, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return conn.Send(msg)
}
