// Package chi exposes the HTTP API: search, health, and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roboatlas/searchd/internal/domain"
	"github.com/roboatlas/searchd/internal/domain/search/request"
	healthuc "github.com/roboatlas/searchd/internal/usecase/health"
	searchuc "github.com/roboatlas/searchd/internal/usecase/search"
)

// Server implements the HTTP API.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Register mounts the API routes onto the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchRequest is the POST /v1/search body.
type searchRequest struct {
	Q                string         `json:"q"`
	Limit            *int           `json:"limit,omitempty"`
	ManualFilters    *manualFilters `json:"manualFilters,omitempty"`
	IgnoreParsedKeys []string       `json:"ignoreParsedKeys,omitempty"`
}

type manualFilters struct {
	ItemType     string   `json:"itemType,omitempty"`
	LocationType string   `json:"locationType,omitempty"`
	PolicySlug   string   `json:"policySlug,omitempty"`
	ObjectTags   []string `json:"objectTags,omitempty"`
	Sort         string   `json:"sort,omitempty"`
	Page         int      `json:"page,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationErrors(w, []domain.FieldError{
			{Field: "body", Message: "invalid JSON: " + err.Error()},
		})
		return
	}

	var filters request.Filters
	if mf := body.ManualFilters; mf != nil {
		filters = request.Filters{
			ItemType:     request.ItemType(mf.ItemType),
			LocationType: mf.LocationType,
			PolicySlug:   mf.PolicySlug,
			ObjectTags:   mf.ObjectTags,
			Sort:         request.Sort(mf.Sort),
			Page:         mf.Page,
		}
	}

	req, err := request.New(body.Q, body.Limit, filters, body.IgnoreParsedKeys)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	writeJSON(w, http.StatusOK, report)
}

// handleError maps domain errors to HTTP responses. Validation failures
// are the only client-facing 4xx class; everything else is internal.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeValidationErrors(w, ve.Fields)
		return
	}

	s.logger.Error("search request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    "internal_error",
		"message": "internal error",
	})
}

func writeValidationErrors(w http.ResponseWriter, fields []domain.FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":   "validation_failed",
		"errors": fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
