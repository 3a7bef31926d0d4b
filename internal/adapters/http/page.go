package httpadapter

import (
	"bytes"
	"net/http"

	"threatdash/internal/domain"
)

type pageData struct {
	Areas      []string
	Threats    []domain.ThreatReport
	Severities []domain.Severity
	Statuses   []domain.Status
	Version    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := s.reports.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	err = s.page.Execute(&buf, pageData{
		Areas:      s.areas.List(),
		Threats:    list,
		Severities: domain.Severities,
		Statuses:   domain.Statuses,
		Version:    Version,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
