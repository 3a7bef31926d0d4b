package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"threatdash/internal/domain"
)

type checkRequest struct {
	Area   string `json:"area"`
	Threat string `json:"threat"`
}

func (s *Server) handleCheckThreat(w http.ResponseWriter, r *http.Request) {
	var in checkRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}
	s.check(w, r, in)
}

func (s *Server) handleCheckThreatQuery(w http.ResponseWriter, r *http.Request) {
	var in checkRequest
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "area", q, &in.Area); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "threat", q, &in.Threat); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.check(w, r, in)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request, in checkRequest) {
	res, err := s.matcher.Check(r.Context(), in.Area, in.Threat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var productKinds = map[string]domain.DatasetName{
	"current":  domain.DatasetCurrent,
	"conceded": domain.DatasetConcessions,
	"issues":   domain.DatasetIssues,
}

type productsResponse struct {
	Kind          string                      `json:"kind"`
	Areas         map[string][]domain.Product `json:"areas"`
	AreaOrder     []string                    `json:"area_order"`
	TotalProducts int                         `json:"total_products"`
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	name, ok := productKinds[kind]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Unknown product list: " + kind})
		return
	}
	groups, order, err := s.matcher.Products(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	total := 0
	for _, ps := range groups {
		total += len(ps)
	}
	if order == nil {
		order = []string{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Kind: kind, Areas: groups, AreaOrder: order, TotalProducts: total})
}
