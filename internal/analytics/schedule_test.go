package analytics

import (
	"testing"

	"shootbook/internal/core"
)

func TestPartitionShoots(t *testing.T) {
	today := core.NewDate(2025, 3, 15)
	shoots := []core.Shoot{
		shoot("2025-03-14", "a", "1", 1),
		shoot("2025-03-20", "b", "2", 1),
		shoot("2025-03-15", "c", "3", 1),
		shoot("2024-12-01", "d", "4", 1),
		shoot("2025-06-01", "e", "5", 1),
	}
	upcoming, history := PartitionShoots(shoots, today)
	if len(upcoming)+len(history) != len(shoots) {
		t.Fatalf("partition lost records: %d + %d", len(upcoming), len(history))
	}
	wantUp := []string{"2025-03-15", "2025-03-20", "2025-06-01"}
	for i, d := range wantUp {
		if upcoming[i].Date.String() != d {
			t.Fatalf("upcoming[%d]: expected %s, got %s", i, d, upcoming[i].Date)
		}
	}
	wantHist := []string{"2025-03-14", "2024-12-01"}
	for i, d := range wantHist {
		if history[i].Date.String() != d {
			t.Fatalf("history[%d]: expected %s, got %s", i, d, history[i].Date)
		}
	}
	seen := map[string]bool{}
	for _, s := range append(upcoming, history...) {
		if seen[s.ID] {
			t.Fatalf("shoot %s appears twice", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestIsOverdue(t *testing.T) {
	today := core.NewDate(2025, 3, 15)
	old := core.MustParseDate("2000-01-01")
	cases := []struct {
		name string
		lead core.Lead
		want bool
	}{
		{"open and past", core.Lead{Status: core.StatusNew, NextFollow: old}, true},
		{"won is never overdue", core.Lead{Status: core.StatusClosedWon, NextFollow: old}, false},
		{"lost is never overdue", core.Lead{Status: core.StatusClosedLost, NextFollow: old}, false},
		{"due today", core.Lead{Status: core.StatusContacted, NextFollow: today}, false},
		{"yesterday", core.Lead{Status: core.StatusProposalSent, NextFollow: today.AddDays(-1)}, true},
		{"no follow-up", core.Lead{Status: core.StatusNew}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverdue(tc.lead, today); got != tc.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverdueCount(t *testing.T) {
	today := core.NewDate(2025, 3, 15)
	leads := []core.Lead{
		{Status: core.StatusNew, NextFollow: core.NewDate(2025, 3, 1)},
		{Status: core.StatusClosedWon, NextFollow: core.NewDate(2025, 3, 1)},
		{Status: core.StatusAssigned, NextFollow: core.NewDate(2025, 3, 20)},
		{Status: core.StatusContacted, NextFollow: core.NewDate(2025, 3, 14)},
	}
	if got := OverdueCount(leads, today); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSortLeadsByFollowUp(t *testing.T) {
	leads := []core.Lead{
		{ID: "late", NextFollow: core.NewDate(2025, 4, 1)},
		{ID: "none-1"},
		{ID: "early", NextFollow: core.NewDate(2025, 3, 1)},
		{ID: "none-2"},
	}
	got := SortLeadsByFollowUp(leads)
	want := []string{"none-1", "none-2", "early", "late"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if leads[0].ID != "late" {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestFilterLeads(t *testing.T) {
	leads := []core.Lead{
		{ID: "1", Name: "Maya Rosen", Phone: "054-3333333", Company: "Rosen Studio"},
		{ID: "2", Name: "Dana", Phone: "050-1111111", Notes: "wedding in June"},
	}
	cases := map[string][]string{
		"":        {"1", "2"},
		"  ":      {"1", "2"},
		"studio":  {"1"},
		"WEDDING": {"2"},
		"050-111": {"2"},
		"nobody":  {},
	}
	for q, want := range cases {
		got := FilterLeads(leads, q)
		if len(got) != len(want) {
			t.Fatalf("%q: expected %v, got %+v", q, want, got)
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("%q: expected %v, got %+v", q, want, got)
			}
		}
	}
}
