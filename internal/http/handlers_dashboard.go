package http

import (
	"bytes"
	"html/template"
	"net/http"

	"shootbook/internal/analytics"
	"shootbook/internal/core"
	"shootbook/internal/log"
	"shootbook/internal/services"
)

var templateFuncs = template.FuncMap{
	"overdue": analytics.IsOverdue,
}

// dashboardPage is the view model of the index template.
type dashboardPage struct {
	services.Dashboard
	Leads   []core.Lead
	Windows []analytics.Window
}

// handleIndex renders the dashboard. ?months= picks the revenue window.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		InternalServerError("templates unavailable").Write(w)
		return
	}
	window, err := ParseWindowParam(r.URL.Query(), "months", s.window)
	if err != nil {
		s.fail(w, r, "index", err)
		return
	}
	today := s.today()
	d, err := s.svc.Dashboard(r.Context(), window, today)
	if err != nil {
		s.fail(w, r, "index", err)
		return
	}
	leads, err := s.svc.ListLeads(r.Context(), "")
	if err != nil {
		s.fail(w, r, "index", err)
		return
	}

	var buf bytes.Buffer
	page := dashboardPage{Dashboard: d, Leads: leads, Windows: analytics.Windows()}
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed", log.FieldError, err.Error())
		InternalServerError("failed to render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
