package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsmsg "coursequiz/pkg/http/ws"
)

func dialSessionWS(t *testing.T, httpURL, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws/sessions/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	msg, err := wsmsg.NewMessage(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func waitForState(t *testing.T, conn *websocket.Conn, timeout time.Duration, ok func(map[string]interface{}) bool) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg wsmsg.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != wsmsg.TypeSessionState {
			continue
		}
		var snap map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.Payload, &snap))
		if ok(snap) {
			return snap
		}
	}
	t.Fatal("no matching session_state frame before deadline")
	return nil
}

func TestSessionWSStreamsInitialState(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, "single_week", "week1")

	conn := dialSessionWS(t, ts.URL, id)

	snap := waitForState(t, conn, 2*time.Second, func(map[string]interface{}) bool { return true })
	assert.Equal(t, "in_progress", snap["status"])
	assert.Equal(t, id, snap["session_id"])
}

func TestSessionWSDispatchesOperations(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, "single_week", "week1")

	conn := dialSessionWS(t, ts.URL, id)

	sendWS(t, conn, wsmsg.TypeSelectAnswer, wsmsg.SelectAnswerPayload{QuestionIndex: 0, Option: "right"})
	snap := waitForState(t, conn, 2*time.Second, func(s map[string]interface{}) bool {
		answered, _ := s["total_answered"].(float64)
		return answered == 1
	})
	assert.EqualValues(t, 1, snap["total_answered"])

	sendWS(t, conn, wsmsg.TypeSubmitQuiz, nil)
	snap = waitForState(t, conn, 2*time.Second, func(s map[string]interface{}) bool {
		completed, _ := s["completed"].(bool)
		return completed
	})
	assert.EqualValues(t, 1, snap["score"])
}

func TestSessionWSVisibility(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, "single_week", "week1")

	conn := dialSessionWS(t, ts.URL, id)

	sendWS(t, conn, wsmsg.TypeVisibility, wsmsg.VisibilityPayload{Visible: false})
	waitForState(t, conn, 2*time.Second, func(s map[string]interface{}) bool {
		active, _ := s["tab_active"].(bool)
		return !active
	})

	sendWS(t, conn, wsmsg.TypeVisibility, wsmsg.VisibilityPayload{Visible: true})
	waitForState(t, conn, 2*time.Second, func(s map[string]interface{}) bool {
		active, _ := s["tab_active"].(bool)
		return active
	})
}

func TestSessionWSUnknownTypeReportsError(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, "single_week", "week1")

	conn := dialSessionWS(t, ts.URL, id)
	sendWS(t, conn, "teleport", nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg wsmsg.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != wsmsg.TypeError {
			continue
		}
		var payload wsmsg.ErrorPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "unknown_message_type", payload.Code)
		return
	}
	t.Fatal("no error frame before deadline")
}

func TestSessionWSUnknownSessionRejected(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/3f1f74b4-9bd0-41d0-9f3c-5a55aa1bfa10"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
