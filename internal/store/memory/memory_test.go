package memory

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shootbook/internal/core"
	"shootbook/internal/log"
)

func quietLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Output: buf, Component: log.ComponentStorage})
}

func sampleShoot(id, date, client string, price int64) core.Shoot {
	return core.Shoot{
		ID:         id,
		Date:       core.MustParseDate(date),
		ClientName: client,
		Phone:      "050-1234567",
		Price:      core.Money{Units: price},
		CreatedAt:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestStoreCreatePrependsAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreateShoot(ctx, sampleShoot("a", "2024-05-01", "Dana", 1000)); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := s.CreateShoot(ctx, sampleShoot("b", "2024-06-01", "Yossi", 2000)); err != nil {
		t.Fatalf("create b: %v", err)
	}
	list, _ := s.ListShoots(ctx)
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	got, err := s.GetShoot(ctx, "a")
	if err != nil || got.ClientName != "Dana" {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
	if _, err := s.GetShoot(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreUpdateKeepsPositionAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateShoot(ctx, sampleShoot("a", "2024-05-01", "Dana", 1000))
	_ = s.CreateShoot(ctx, sampleShoot("b", "2024-06-01", "Yossi", 2000))

	edited := sampleShoot("a", "2024-05-02", "Dana Levi", 1500)
	edited.CreatedAt = time.Now()
	if err := s.UpdateShoot(ctx, edited); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ := s.ListShoots(ctx)
	if list[1].ID != "a" || list[1].ClientName != "Dana Levi" || list[1].Price.Units != 1500 {
		t.Fatalf("update did not keep position: %+v", list)
	}
	if !list[1].CreatedAt.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("createdAt changed: %v", list[1].CreatedAt)
	}
	if err := s.UpdateShoot(ctx, sampleShoot("zzz", "2024-05-01", "X", 0)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateLead(ctx, core.Lead{ID: "l1", Name: "Noa", Phone: "1", Status: core.StatusNew})
	_ = s.CreateLead(ctx, core.Lead{ID: "l2", Name: "Avi", Phone: "2", Status: core.StatusNew})
	if err := s.DeleteLead(ctx, "l1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	leads, _ := s.ListLeads(ctx)
	if len(leads) != 1 || leads[0].ID != "l2" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
	if err := s.DeleteLead(ctx, "l1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var buf bytes.Buffer

	s := Open(dir, "crm-shoots-v4", "crm-leads-v3", quietLogger(&buf))
	_ = s.CreateShoot(ctx, sampleShoot("a", "2024-05-01", "Dana", 1000))
	_ = s.CreateShoot(ctx, sampleShoot("b", "2024-06-01", "Yossi", 2000))
	_ = s.CreateLead(ctx, core.Lead{
		ID: "l1", Name: "Noa", Phone: "1", Status: core.StatusProposalSent,
		NextFollow: core.MustParseDate("2024-06-10"),
	})

	for _, name := range []string{"crm-shoots-v4.json", "crm-leads-v3.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("slot %s not written: %v", name, err)
		}
	}

	reopened := Open(dir, "crm-shoots-v4", "crm-leads-v3", quietLogger(&buf))
	shoots, _ := reopened.ListShoots(ctx)
	if len(shoots) != 2 || shoots[0].ID != "b" || shoots[1].Date.String() != "2024-05-01" {
		t.Fatalf("unexpected reload: %+v", shoots)
	}
	leads, _ := reopened.ListLeads(ctx)
	if len(leads) != 1 || leads[0].Status != core.StatusProposalSent || leads[0].NextFollow.String() != "2024-06-10" {
		t.Fatalf("unexpected leads reload: %+v", leads)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestOpenCorruptSlotStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "crm-shoots-v4.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s := Open(dir, "crm-shoots-v4", "crm-leads-v3", quietLogger(&buf))

	shoots, _ := s.ListShoots(context.Background())
	if len(shoots) != 0 {
		t.Fatalf("expected empty collection, got %d", len(shoots))
	}
	if !strings.Contains(buf.String(), "Slot corrupt") || !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestOpenTolerantPriceDecoding(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"a","date":"2024-05-01","clientName":"Dana","phone":"1","price":"abc","createdAt":"2024-01-01T00:00:00Z"},
	{"id":"b","date":"2024-05-02","clientName":"Avi","phone":"2","price":null,"createdAt":"2024-01-01T00:00:00Z"},
	{"id":"c","date":"2024-05-03","clientName":"Gil","phone":"3","price":"1200","createdAt":"2024-01-01T00:00:00Z"}]`
	if err := os.WriteFile(filepath.Join(dir, "shoots.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s := Open(dir, "shoots", "leads", quietLogger(&buf))
	shoots, _ := s.ListShoots(context.Background())
	if len(shoots) != 3 {
		t.Fatalf("expected 3 shoots, got %d (log: %s)", len(shoots), buf.String())
	}
	want := []int64{0, 0, 1200}
	for i, sh := range shoots {
		if sh.Price.Units != want[i] {
			t.Errorf("shoot %s price = %d, want %d", sh.ID, sh.Price.Units, want[i])
		}
	}
}

func TestReplaceLeads(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateLead(ctx, core.Lead{ID: "old", Name: "Old", Phone: "0"})
	err := s.ReplaceLeads(ctx, []core.Lead{{ID: "n1", Name: "A", Phone: "1"}, {ID: "n2", Name: "B", Phone: "2"}})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	leads, _ := s.ListLeads(ctx)
	if len(leads) != 2 || leads[0].ID != "n1" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
}

func TestSlotReaderFollowsWrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var buf bytes.Buffer
	s := Open(dir, "shoots", "leads", quietLogger(&buf))
	r := NewSlotReader(dir, "shoots", "leads", quietLogger(&buf))

	shoots, _ := r.ListShoots(ctx)
	if len(shoots) != 0 {
		t.Fatalf("expected empty before writes, got %d", len(shoots))
	}
	_ = s.CreateShoot(ctx, sampleShoot("a", "2024-05-01", "Dana", 1000))
	_ = s.CreateLead(ctx, core.Lead{ID: "l1", Name: "Noa", Phone: "1", Status: core.StatusNew})

	shoots, _ = r.ListShoots(ctx)
	leads, _ := r.ListLeads(ctx)
	if len(shoots) != 1 || len(leads) != 1 {
		t.Fatalf("reader did not see writes: %d shoots, %d leads", len(shoots), len(leads))
	}
}

func TestSlotReaderRejectsCorruptSlot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shoots.json"), []byte(`[{"id":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "leads.json"), []byte(`{"not":"a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	r := NewSlotReader(dir, "shoots", "leads", quietLogger(&buf))

	if shoots, err := r.ListShoots(ctx); err == nil {
		t.Fatalf("expected error for corrupt shoots slot, got %d shoots", len(shoots))
	}
	if leads, err := r.ListLeads(ctx); err == nil {
		t.Fatalf("expected error for corrupt leads slot, got %d leads", len(leads))
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got log: %s", buf.String())
	}

	// a missing slot is still just empty
	empty := NewSlotReader(t.TempDir(), "shoots", "leads", quietLogger(&buf))
	shoots, err := empty.ListShoots(ctx)
	if err != nil || len(shoots) != 0 {
		t.Fatalf("missing slot: got %d shoots, err=%v", len(shoots), err)
	}
}
