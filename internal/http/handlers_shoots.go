package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shootbook/internal/core"
	"shootbook/internal/services"
)

func (s *Server) handleListShoots(w http.ResponseWriter, r *http.Request) {
	shoots, err := s.svc.ListShoots(r.Context(), r.URL.Query().Get("view"), s.today())
	if err != nil {
		s.fail(w, r, "list_shoots", err)
		return
	}
	if shoots == nil {
		shoots = []core.Shoot{}
	}
	NewJSONResponse().Body(shoots).Write(w)
}

func (s *Server) handleGetShoot(w http.ResponseWriter, r *http.Request) {
	shoot, err := s.svc.GetShoot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get_shoot", err)
		return
	}
	NewJSONResponse().Body(shoot).Write(w)
}

func (s *Server) handleCreateShoot(w http.ResponseWriter, r *http.Request) {
	var in services.ShootInput
	if err := DecodeJSONBody(w, r, &in); err != nil {
		s.fail(w, r, "create_shoot", err)
		return
	}
	// ids are always assigned by the service
	in.ID = ""
	shoot, _, err := s.svc.SaveShoot(r.Context(), in)
	if err != nil {
		s.fail(w, r, "create_shoot", err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/shoots/"+shoot.ID).
		Body(shoot).
		Write(w)
}

func (s *Server) handleUpdateShoot(w http.ResponseWriter, r *http.Request) {
	var in services.ShootInput
	if err := DecodeJSONBody(w, r, &in); err != nil {
		s.fail(w, r, "update_shoot", err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	shoot, _, err := s.svc.SaveShoot(r.Context(), in)
	if err != nil {
		s.fail(w, r, "update_shoot", err)
		return
	}
	NewJSONResponse().Body(shoot).Write(w)
}

func (s *Server) handleDeleteShoot(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteShoot(r.Context(), chi.URLParam(r, "id"), ParseConfirmParam(r.URL.Query()))
	if err != nil {
		s.fail(w, r, "delete_shoot", err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
