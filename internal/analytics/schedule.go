package analytics

import (
	"sort"
	"strings"

	"shootbook/internal/core"
)

// IsUpcoming reports whether the shoot is today or later.
func IsUpcoming(s core.Shoot, today core.Date) bool {
	return !s.Date.Less(today)
}

// PartitionShoots splits shoots into upcoming (ascending by date) and history
// (descending by date). Every shoot lands in exactly one of the two.
func PartitionShoots(shoots []core.Shoot, today core.Date) (upcoming, history []core.Shoot) {
	upcoming = make([]core.Shoot, 0)
	history = make([]core.Shoot, 0)
	for _, s := range shoots {
		if IsUpcoming(s, today) {
			upcoming = append(upcoming, s)
		} else {
			history = append(history, s)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Less(upcoming[j].Date)
	})
	sort.SliceStable(history, func(i, j int) bool {
		return history[j].Date.Less(history[i].Date)
	})
	return upcoming, history
}

// IsOverdue reports whether a still-open lead has a follow-up date before today.
func IsOverdue(l core.Lead, today core.Date) bool {
	if l.NextFollow.IsEmpty() || l.Status.IsClosed() {
		return false
	}
	return l.NextFollow.Less(today)
}

// OverdueCount counts the leads IsOverdue reports.
func OverdueCount(leads []core.Lead, today core.Date) int {
	n := 0
	for _, l := range leads {
		if IsOverdue(l, today) {
			n++
		}
	}
	return n
}

// SortLeadsByFollowUp returns a copy of leads ordered by next follow-up date.
// Leads without a follow-up date come first; equal dates keep input order.
func SortLeadsByFollowUp(leads []core.Lead) []core.Lead {
	out := make([]core.Lead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextFollow.Less(out[j].NextFollow)
	})
	return out
}

// FilterLeads keeps leads whose name, phone, company or notes contain query,
// case-insensitively. A blank query keeps everything.
func FilterLeads(leads []core.Lead, query string) []core.Lead {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]core.Lead, 0, len(leads))
	for _, l := range leads {
		if q == "" || strings.Contains(strings.ToLower(l.Name+" "+l.Phone+" "+l.Company+" "+l.Notes), q) {
			out = append(out, l)
		}
	}
	return out
}
