package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"listabot/internal/config"
	"listabot/internal/domain"
	"listabot/internal/metrics"
	"listabot/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HTTPServer is the read-only sidecar next to the bot: health and
// metrics for the operator, plus a small JSON view of the roster for
// campaign dashboards. It never writes to the roster.
type HTTPServer struct {
	cfg      config.APIConfig
	contacts domain.ContactRepository
	logger   *zerolog.Logger
	server   *http.Server
	auth     *HTTPAuth
}

func NewHTTPServer(cfg config.APIConfig, contacts domain.ContactRepository, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, contacts: contacts, logger: logger}
	srv.auth = NewHTTPAuth(cfg)
	metrics.Register()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/v1/contacts", srv.auth.Wrap(http.HandlerFunc(srv.handleContacts)))
	mux.Handle("/api/v1/summary", srv.auth.Wrap(http.HandlerFunc(srv.handleSummary)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type contactJSON struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id,omitempty"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
}

// handleContacts serves GET /api/v1/contacts?estado=<status>. Statuses
// are display-cleaned; "En contacto" selects any claim tag.
func (s *HTTPServer) handleContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	contacts, err := s.contacts.ReadAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("roster read failed")
		writeError(w, http.StatusBadGateway, "roster unavailable")
		return
	}

	filter := strings.TrimSpace(r.URL.Query().Get("estado"))
	out := make([]contactJSON, 0, len(contacts))
	for _, c := range contacts {
		if filter != "" && !statusMatches(c.Status, filter) {
			continue
		}
		out = append(out, contactJSON{
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Phone:      c.Phone,
			NationalID: c.NationalID,
			Status:     models.CleanStatusForDisplay(c.Status),
			Note:       c.Note,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": out, "count": len(out)})
}

func statusMatches(status, filter string) bool {
	if models.NormalizeText(filter) == "en contacto" {
		return models.IsInContact(status)
	}
	return models.NormalizeText(status) == models.NormalizeText(filter)
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	contacts, err := s.contacts.ReadAll(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("roster read failed")
		writeError(w, http.StatusBadGateway, "roster unavailable")
		return
	}

	counts := make(map[string]int)
	for _, c := range contacts {
		st := c.Status
		if models.IsInContact(st) {
			st = "En contacto"
		}
		counts[st]++
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": len(contacts), "by_status": counts})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
