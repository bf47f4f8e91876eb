package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/blackboard/internal/logging"
	"github.com/aretw0/blackboard/pkg/adapters/file"
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/library"
	"github.com/aretw0/blackboard/pkg/ports"
	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server exposes a library.Manager over HTTP.
type Server struct {
	manager  *library.Manager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	validate bool
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the gatherer's metrics on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithValidation checks requests against the embedded OpenAPI document.
func WithValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// KindResponse describes one creatable parameter kind.
type KindResponse struct {
	Type        string `json:"type"`
	MenuPath    string `json:"menu_path"`
	SubMenuPath string `json:"sub_menu_path,omitempty"`
	GroupLevel  int    `json:"group_level"`
}

// TemplateList is the body of GET /templates.
type TemplateList struct {
	Templates []string `json:"templates"`
}

// InstantiateRequest is the body of POST /templates/{name}/instances.
type InstantiateRequest struct {
	Values map[string]any `json:"values"`
}

// InstanceResponse is an instance and its difference from the template.
type InstanceResponse struct {
	ID       string             `json:"id"`
	Template string             `json:"template"`
	Instance *snapshot.Document `json:"instance"`
	Diff     *snapshot.Delta    `json:"diff"`
}

// NewHandler builds the router. It fails only if validation is enabled and
// the embedded OpenAPI document does not load.
func NewHandler(manager *library.Manager, opts ...Option) (http.Handler, error) {
	s := &Server{
		manager: manager,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	if s.validate {
		router, err := newSpecRouter()
		if err != nil {
			return nil, err
		}
		r.Use(s.validateRequests(router))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/kinds", s.ListKinds)
	r.Get("/templates", s.ListTemplates)
	r.Route("/templates/{name}", func(r chi.Router) {
		r.Get("/", s.GetTemplate)
		r.Put("/", s.PutTemplate)
		r.Delete("/", s.DeleteTemplate)
		r.Post("/instances", s.Instantiate)
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListKinds handles GET /kinds.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	kinds := s.manager.Catalog().Kinds()
	resp := make([]KindResponse, len(kinds))
	for i, k := range kinds {
		resp[i] = kindResponse(k)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListTemplates handles GET /templates.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := s.manager.List(r.Context())
	if err != nil {
		s.fail(w, "ListTemplates", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, TemplateList{Templates: names})
}

// GetTemplate handles GET /templates/{name}.
func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	doc, err := s.manager.Document(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetTemplate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// PutTemplate handles PUT /templates/{name}.
func (s *Server) PutTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var doc snapshot.Document
	if err := decodeBody(w, r, &doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutTemplate: invalid request body", "error", err)
		return
	}

	if err := s.manager.PublishDocument(r.Context(), name, &doc); err != nil {
		s.fail(w, "PutTemplate", err)
		return
	}

	stored, err := s.manager.Document(r.Context(), name)
	if err != nil {
		s.fail(w, "PutTemplate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

// DeleteTemplate handles DELETE /templates/{name}.
func (s *Server) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Remove(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "DeleteTemplate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Instantiate handles POST /templates/{name}/instances.
func (s *Server) Instantiate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body InstantiateRequest
	if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Instantiate: invalid request body", "error", err)
		return
	}

	inst, err := s.manager.Instantiate(r.Context(), name, body.Values)
	if err != nil {
		s.fail(w, "Instantiate", err)
		return
	}

	diff := inst.Diff()
	s.logger.Debug("Instantiate: diff calculated", "template", name, "diff", diff)
	s.writeJSON(w, http.StatusCreated, InstanceResponse{
		ID:       inst.Registry.ID(),
		Template: name,
		Instance: inst.Document(),
		Diff:     diff,
	})
}

func kindResponse(k catalog.Kind) KindResponse {
	return KindResponse{
		Type:        k.Name(),
		MenuPath:    k.MenuPath,
		SubMenuPath: k.SubMenuPath(),
		GroupLevel:  k.GroupLevel,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// Keep integers exact; schema.Coerce resolves json.Number per kind.
	dec.UseNumber()
	return dec.Decode(v)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrTemplateNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, file.ErrInvalidName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case schema.ValidationErrors(err) != nil,
		errors.Is(err, blackboard.ErrDuplicateName),
		errors.Is(err, blackboard.ErrTypeMismatch):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
