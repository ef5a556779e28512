package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeVisibility       = "visibility"
	TypeSelectAnswer     = "select_answer"
	TypeNextQuestion     = "next_question"
	TypePreviousQuestion = "previous_question"
	TypeSubmitQuiz       = "submit_quiz"
	TypeRestartQuiz      = "restart_quiz"

	// Server -> Client
	TypeSessionState = "session_state"
	TypeError        = "error"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed envelope. A nil payload yields an
// envelope with no payload field contents.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

// Client Messages (incoming)

type VisibilityPayload struct {
	Visible bool `json:"visible"`
}

type SelectAnswerPayload struct {
	QuestionIndex int    `json:"question_index"`
	Option        string `json:"option"`
}

// Server Messages (outgoing)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
