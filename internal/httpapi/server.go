package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/pingwatch/pingwatch/internal/httpapi/middleware"
	"github.com/pingwatch/pingwatch/internal/runner"
)

// Server exposes the run trigger surface: an external scheduler POSTs to
// /api/run and gets the full run report back.
type Server struct {
	Logger *zap.Logger
	Runner *runner.Runner
}

func NewServer(l *zap.Logger, r *runner.Runner) *Server {
	return &Server{Logger: l, Runner: r}
}

func (s *Server) Router(keys []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(g chi.Router) {
		g.Use(apimw.RequireKey(keys))
		g.Use(apimw.RateLimit(rpm, burst))
		g.Post("/api/run", s.handleRun)
	})

	return r
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report := s.Runner.Run(r.Context())

	s.Logger.Info("run_completed",
		zap.Bool("ok", report.OK),
		zap.Int("targets", len(report.Results)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(report.StatusCode())
	_ = json.NewEncoder(w).Encode(report)
}
