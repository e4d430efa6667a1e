package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf}).WithComponent(ComponentStorage)
	logger.Info("slot loaded", FieldSlot, "crm-shoots-v4")
	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "slot=crm-shoots-v4") {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", got)
	}
}

func TestAccessLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	h := Middleware(logger)(AccessLog(func(*http.Request) string { return "10.0.0.1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/shoots/x", nil))
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status_code=404") {
		t.Fatalf("unexpected access log: %s", out)
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().WithRecord("shoot", "abc").WithShoot("Dana", "2025-01-12", 2000).WithError(nil)
	if f[FieldKind] != "shoot" || f[FieldRecordID] != "abc" || f[FieldPriceUnits] != int64(2000) {
		t.Fatalf("unexpected fields: %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error must not add a field")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("unexpected slice length")
	}
}
