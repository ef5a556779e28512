package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coursequiz/internal/config"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires the API routes over the session handlers.
func NewHTTPServer(cfg *config.App, handlers *Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/weeks", handlers.ListWeeks)
	mux.HandleFunc("POST /v1/sessions", handlers.CreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", handlers.GetSession)
	mux.HandleFunc("POST /v1/sessions/{id}/answers", handlers.SelectAnswer)
	mux.HandleFunc("POST /v1/sessions/{id}/submit", handlers.SubmitQuiz)
	mux.HandleFunc("POST /v1/sessions/{id}/restart", handlers.RestartQuiz)
	mux.HandleFunc("POST /v1/sessions/{id}/next", handlers.NextQuestion)
	mux.HandleFunc("POST /v1/sessions/{id}/previous", handlers.PreviousQuestion)
	mux.HandleFunc("POST /v1/sessions/{id}/visibility", handlers.SetVisibility)
	mux.HandleFunc("GET /ws/sessions/{id}", handlers.SessionWS)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
