package httpadapter

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"threatdash/internal/domain"
	"threatdash/internal/ports"
)

const Version = "1.0.0"

//go:embed templates/*.html
var templates embed.FS

// Server serves the JSON API and the dashboard page.
type Server struct {
	matcher ports.Matcher
	reports ports.Reports
	areas   ports.Areas
	log     *logrus.Logger
	page    *template.Template
	now     func() time.Time
}

func New(matcher ports.Matcher, reports ports.Reports, areas ports.Areas, log *logrus.Logger) *Server {
	page := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"fmtTime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}).ParseFS(templates, "templates/index.html"))
	return &Server{matcher: matcher, reports: reports, areas: areas, log: log, page: page, now: time.Now}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)

		r.Get("/threats", s.handleListThreats)
		r.Post("/threats", s.handleCreateThreat)
		r.Put("/threats/{id}", s.handleUpdateThreat)
		r.Delete("/threats/{id}", s.handleDeleteThreat)

		r.Get("/check-threat", s.handleCheckThreatQuery)
		r.Post("/check-threat", s.handleCheckThreat)
		r.Get("/products/{kind}", s.handleProducts)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now(),
		"version":   Version,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	n, err := s.reports.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid_areas":   s.areas.List(),
		"total_threats": n,
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Unexpected errors are logged
// and hidden behind a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Threat not found"})
	default:
		s.log.WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).Errorf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}
