package sheets

import (
	"time"

	"shootbook/internal/core"
)

var (
	ShootHeader = []any{"ID", "Date", "Client", "Phone", "Location", "Deliverables", "Price", "Notes", "Created"}
	LeadHeader  = []any{"ID", "Name", "Phone", "Company", "Status", "Last contact", "Next follow-up", "Notes", "Created"}
)

// ShootRows renders shoots as sheet rows, header first. Prices stay
// numeric so the sheet can sum them.
func ShootRows(shoots []core.Shoot) [][]any {
	rows := make([][]any, 0, len(shoots)+1)
	rows = append(rows, ShootHeader)
	for _, s := range shoots {
		rows = append(rows, []any{
			s.ID,
			s.Date.String(),
			s.ClientName,
			s.Phone,
			s.Location,
			s.Deliverables,
			s.Price.Units,
			s.Notes,
			formatCreated(s.CreatedAt),
		})
	}
	return rows
}

func LeadRows(leads []core.Lead) [][]any {
	rows := make([][]any, 0, len(leads)+1)
	rows = append(rows, LeadHeader)
	for _, l := range leads {
		rows = append(rows, []any{
			l.ID,
			l.Name,
			l.Phone,
			l.Company,
			string(l.Status),
			l.LastContact.String(),
			l.NextFollow.String(),
			l.Notes,
			formatCreated(l.CreatedAt),
		})
	}
	return rows
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
