package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"threatdash/internal/domain"
)

func (s *Server) handleListThreats(w http.ResponseWriter, r *http.Request) {
	list, err := s.reports.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateThreat(w http.ResponseWriter, r *http.Request) {
	var in domain.NewReport
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}
	t, err := s.reports.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Threat added successfully",
		"threat":  t,
	})
}

type statusUpdate struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateThreat(w http.ResponseWriter, r *http.Request) {
	id, ok := s.threatID(w, r)
	if !ok {
		return
	}
	var in statusUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}
	t, err := s.reports.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Threat updated successfully",
		"threat":  t,
	})
}

func (s *Server) handleDeleteThreat(w http.ResponseWriter, r *http.Request) {
	id, ok := s.threatID(w, r)
	if !ok {
		return
	}
	if err := s.reports.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Threat deleted successfully"})
}

func (s *Server) threatID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid threat id"})
		return 0, false
	}
	return id, true
}
