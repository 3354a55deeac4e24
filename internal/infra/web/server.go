package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"surgical-viz-client/internal/domain/model"
	"surgical-viz-client/internal/domain/ports/repository"
	"surgical-viz-client/internal/infra/logging"
	"surgical-viz-client/internal/infra/notify"
	"surgical-viz-client/internal/usecase"
)

// Server exposes the orchestrator's observable state, the result cache and the
// notification feed to the UI layer over a local HTTP API.
type Server struct {
	vizUC usecase.VisualizationUseCase
	cache repository.ResultCache
	feed  *notify.Feed
	log   *zerolog.Logger
	dev   bool
}

func NewServer(
	vizUC usecase.VisualizationUseCase,
	cache repository.ResultCache,
	feed *notify.Feed,
	logger *zerolog.Logger,
	dev bool,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{vizUC: vizUC, cache: cache, feed: feed, log: &l, dev: dev}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", s.handleSubmit)
		r.Get("/jobs/active", s.handleActive)
		r.Delete("/jobs/active", s.handleCancel)

		r.Get("/visualizations", s.handleHistory)
		r.Get("/visualizations/current", s.handleCurrent)
		r.Get("/visualizations/{id}", s.handleGet)

		r.Get("/notifications", s.handleNotifications)
	})
	return r
}

// requestID stamps every request with a uuid for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req model.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	log := logging.With(r.Context(), s.log)
	log.Info().
		Str("image_id", req.ImageID).
		Str("procedure_id", req.ProcedureID).
		Str("patient_id", logging.Redact(req.PatientID, s.dev)).
		Msg("job submitted")

	// Submission outcome is observable through /jobs/active and the
	// notification feed, never through this response.
	s.vizUC.Submit(r.Context(), req)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vizUC.Snapshot())
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.vizUC.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	v, err := s.cache.Current(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("cache read failed")
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "no visualization yet")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := s.cache.History(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("cache read failed")
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}
	if items == nil {
		items = []*model.Visualization{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job := s.vizUC.GetVisualization(r.Context(), id)
	if job == nil {
		writeError(w, http.StatusNotFound, "visualization not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feed.Recent(0))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
