package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shootbook/internal/core"
	"shootbook/internal/services"
)

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.svc.ListLeads(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, "list_leads", err)
		return
	}
	if leads == nil {
		leads = []core.Lead{}
	}
	NewJSONResponse().Body(leads).Write(w)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.svc.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get_lead", err)
		return
	}
	NewJSONResponse().Body(lead).Write(w)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in services.LeadInput
	if err := DecodeJSONBody(w, r, &in); err != nil {
		s.fail(w, r, "create_lead", err)
		return
	}
	in.ID = ""
	lead, _, err := s.svc.SaveLead(r.Context(), in)
	if err != nil {
		s.fail(w, r, "create_lead", err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/leads/"+lead.ID).
		Body(lead).
		Write(w)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var in services.LeadInput
	if err := DecodeJSONBody(w, r, &in); err != nil {
		s.fail(w, r, "update_lead", err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	lead, _, err := s.svc.SaveLead(r.Context(), in)
	if err != nil {
		s.fail(w, r, "update_lead", err)
		return
	}
	NewJSONResponse().Body(lead).Write(w)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteLead(r.Context(), chi.URLParam(r, "id"), ParseConfirmParam(r.URL.Query()))
	if err != nil {
		s.fail(w, r, "delete_lead", err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleAdvanceFollowUp moves the next follow-up forward, a week by default.
func (s *Server) handleAdvanceFollowUp(w http.ResponseWriter, r *http.Request) {
	days, err := ParseDaysParam(r.URL.Query())
	if err != nil {
		s.fail(w, r, "advance_follow_up", err)
		return
	}
	lead, err := s.svc.AdvanceFollowUp(r.Context(), chi.URLParam(r, "id"), days, s.today())
	if err != nil {
		s.fail(w, r, "advance_follow_up", err)
		return
	}
	NewJSONResponse().Body(lead).Write(w)
}
