package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the backend. Streaming endpoints disable
// write timeouts, so the server relies on request contexts for cancellation.
type Server struct {
	httpServer *http.Server
}

type Handlers struct {
	Meetings   *MeetingHandler
	Transcribe *TranscribeHandler
	Generate   *GenerateHandler
	Settings   *SettingsHandler
}

func NewServer(addr string, h Handlers) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health)
	mux.HandleFunc("POST /api/meetings", h.Meetings.Create)
	mux.HandleFunc("GET /api/meetings", h.Meetings.List)
	mux.HandleFunc("GET /api/meetings/{id}", h.Meetings.Get)
	mux.HandleFunc("PATCH /api/meetings/{id}", h.Meetings.Patch)
	mux.HandleFunc("DELETE /api/meetings/{id}", h.Meetings.Delete)
	mux.HandleFunc("POST /api/transcribe", h.Transcribe.Transcribe)
	mux.HandleFunc("POST /api/meetings/generate-recap", h.Generate.Recap)
	mux.HandleFunc("POST /api/meetings/generate-highlights", h.Generate.Highlights)
	mux.HandleFunc("GET /api/settings", h.Settings.Get)
	mux.HandleFunc("POST /api/settings", h.Settings.Save)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
