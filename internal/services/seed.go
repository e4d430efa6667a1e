package services

import (
	"time"

	"github.com/google/uuid"

	"shootbook/internal/core"
)

// sampleData builds a small data set around today: two past shoots for one
// returning client, one shoot later this month, and two leads of which the
// first is already overdue.
func sampleData(today core.Date, now time.Time) ([]core.Shoot, []core.Lead) {
	y, m, d := today.Year(), int(today.Month()), today.Day()
	clamp := func(day int) int {
		if day < 1 {
			return 1
		}
		return day
	}

	shoots := []core.Shoot{
		{
			ID: uuid.NewString(), CreatedAt: now,
			Date:       core.NewDate(y, m-1, 12),
			ClientName: "דנה כהן", Phone: "050-1111111",
			Location: "תל אביב", Deliverables: "30 תמונות",
			Price: core.Money{Units: 2000},
		},
		{
			ID: uuid.NewString(), CreatedAt: now,
			Date:       core.NewDate(y, m-2, 5),
			ClientName: "דנה כהן", Phone: "050-1111111",
			Location: "תל אביב", Deliverables: "וידאו + 20 תמונות",
			Price: core.Money{Units: 1800},
		},
		{
			ID: uuid.NewString(), CreatedAt: now,
			Date:       core.NewDate(y, m, 20),
			ClientName: "אושר לוי", Phone: "052-2222222",
			Location: "חיפה", Deliverables: "40 תמונות",
			Price: core.Money{Units: 2600},
		},
	}

	leads := []core.Lead{
		{
			ID: uuid.NewString(), CreatedAt: now,
			Name: "מאיה רוזן", Phone: "054-3333333", Company: "סטודיו רוזן",
			Status:      core.StatusContacted,
			LastContact: core.NewDate(y, m, clamp(d-2)),
			NextFollow:  core.NewDate(y, m, clamp(d-1)),
		},
		{
			ID: uuid.NewString(), CreatedAt: now,
			Name: "דנה כהן", Phone: "050-1111111", Company: "עצמאית",
			Status:     core.StatusProposalSent,
			NextFollow: today.AddDays(2),
		},
	}
	return shoots, leads
}
