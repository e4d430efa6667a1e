package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shootbook/internal/analytics"
)

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Maya"}`, false},
		{"unknown fields ignored", `{"name":"Maya","extra":1}`, false},
		{"empty", ``, true},
		{"malformed", `{"name":`, true},
		{"trailing object", `{"name":"a"}{"name":"b"}`, true},
		{"too large", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBadRequest) {
				t.Fatalf("err = %v, want errBadRequest", err)
			}
			if err == nil && dst.Name != "Maya" {
				t.Fatalf("Name = %q", dst.Name)
			}
		})
	}
}

func TestParseWindowParam(t *testing.T) {
	tests := []struct {
		query   string
		want    analytics.Window
		wantErr bool
	}{
		{"", analytics.Window12, false},
		{"months=3", analytics.Window3, false},
		{"months=%206%20", analytics.Window6, false},
		{"months=5", analytics.Window(5), false},
		{"months=abc", 0, true},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		got, err := ParseWindowParam(q, "months", analytics.Window12)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: err = %v", tt.query, err)
		}
		if got != tt.want {
			t.Errorf("%q: window = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestParseDaysParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", defaultAdvanceDays, false},
		{"days=14", 14, false},
		{"days=-1", -1, false},
		{"days=1.5", 0, true},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		got, err := ParseDaysParam(q)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("%q: got %d, %v", tt.query, got, err)
		}
	}
}

func TestParseConfirmParam(t *testing.T) {
	tests := map[string]bool{
		"":              false,
		"confirm=true":  true,
		"confirm=TRUE":  true,
		"confirm=1":     true,
		"confirm=yes":   true,
		"confirm=false": false,
		"confirm=0":     false,
		"confirm=maybe": false,
	}
	for query, want := range tests {
		q, _ := url.ParseQuery(query)
		if got := ParseConfirmParam(q); got != want {
			t.Errorf("%q: got %v, want %v", query, got, want)
		}
	}
}
