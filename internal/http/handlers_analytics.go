package http

import (
	"net/http"

	"shootbook/internal/analytics"
	"shootbook/internal/log"
)

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindowParam(r.URL.Query(), "months", s.window)
	if err != nil {
		s.fail(w, r, "revenue", err)
		return
	}
	series, err := s.svc.RevenueSeries(r.Context(), window, s.today())
	if err != nil {
		s.fail(w, r, "revenue", err)
		return
	}
	NewJSONResponse().Body(series).Write(w)
}

func (s *Server) handleLTV(w http.ResponseWriter, r *http.Request) {
	clients, err := s.svc.ClientLTV(r.Context())
	if err != nil {
		s.fail(w, r, "ltv", err)
		return
	}
	if clients == nil {
		clients = []analytics.ClientValue{}
	}
	NewJSONResponse().Body(clients).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window, err := ParseWindowParam(r.URL.Query(), "months", s.window)
	if err != nil {
		s.fail(w, r, "summary", err)
		return
	}
	d, err := s.svc.Dashboard(r.Context(), window, s.today())
	if err != nil {
		s.fail(w, r, "summary", err)
		return
	}
	NewJSONResponse().Body(d).Write(w)
}

// phoneSuggestion is the autofill answer for a client name.
type phoneSuggestion struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Found bool   `json:"found"`
}

func (s *Server) handleSuggestPhone(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	phone, found, err := s.svc.SuggestPhone(r.Context(), name)
	if err != nil {
		s.fail(w, r, "suggest_phone", err)
		return
	}
	NewJSONResponse().Body(phoneSuggestion{Name: name, Phone: phone, Found: found}).Write(w)
}

func (s *Server) handleLeadNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.LeadNames(r.Context())
	if err != nil {
		s.fail(w, r, "lead_names", err)
		return
	}
	NewJSONResponse().Body(names).Write(w)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Seed(r.Context(), s.today()); err != nil {
		s.fail(w, r, "seed", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Sample data requested", log.FieldOperation, log.OpSeed)
	NewJSONResponse().Body(map[string]string{"status": "seeded"}).Write(w)
}
