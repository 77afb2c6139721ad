package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lcastelli/motdepasse-server/internal/session"
	"github.com/lcastelli/motdepasse-server/internal/ws"
)

// RouterConfig holds the collaborators the router wires together
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *session.Registry
}

// NewRouter creates the HTTP router: the websocket endpoint plus
// health and stats endpoints for load balancers and monitoring
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(Recovery(cfg.Logger))

	wsHandler := ws.NewHandler(cfg.Registry, cfg.Logger)
	r.Handle("/ws", wsHandler)

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", statsHandler(cfg.Registry)).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func statsHandler(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"activeRooms":%d}`, registry.Count())
	}
}
