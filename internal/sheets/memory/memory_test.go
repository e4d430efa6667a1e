package memory

import (
	"context"
	"testing"

	"shootbook/internal/core"
)

func TestExporterKeepsLastExport(t *testing.T) {
	e := New()
	ctx := context.Background()

	if _, err := e.ExportShoots(ctx, []core.Shoot{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("export: %v", err)
	}
	n, err := e.ExportShoots(ctx, []core.Shoot{{ID: "c"}})
	if err != nil || n != 1 {
		t.Fatalf("unexpected export: n=%d err=%v", n, err)
	}
	rows := e.Shoots()
	if len(rows) != 2 || rows[1][0] != "c" {
		t.Fatalf("expected only the last export, got %v", rows)
	}

	_, _ = e.ExportLeads(ctx, []core.Lead{{ID: "l1", Status: core.StatusNew}})
	if len(e.Leads()) != 2 {
		t.Fatalf("unexpected leads rows: %v", e.Leads())
	}
	if e.Runs() != 3 {
		t.Fatalf("runs = %d, want 3", e.Runs())
	}
}
