package core

import (
	"encoding/json"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1800", 1800, true},
		{"0", 0, true},
		{"1800.4", 1800, true},
		{"1800,5", 0, false},
		{"1,800", 0, false},
		{"12,345.50", 0, false},
		{" 2600 ", 2600, true},
		{".7", 1, true},
		{"-1", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyUnmarshalTreatsGarbageAsZero(t *testing.T) {
	cases := map[string]int64{
		`2000`:     2000,
		`1999.6`:   2000,
		`"1800"`:   1800,
		`"oops"`:   0,
		`"2,600"`:  0,
		`"1800,5"`: 0,
		`1e30`:     0,
		`-5`:       0,
		`-0.2`:     0,
		`9.3e18`:   0,
		`null`:     0,
		`true`:     0,
		`{"a":1}`:  0,
	}
	for in, want := range cases {
		var s struct {
			Price Money `json:"price"`
		}
		if err := json.Unmarshal([]byte(`{"price":`+in+`}`), &s); err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if s.Price.Units != want {
			t.Fatalf("%s: expected %d, got %d", in, want, s.Price.Units)
		}
	}
}

func TestMoneyMissingIsZero(t *testing.T) {
	var s Shoot
	if err := json.Unmarshal([]byte(`{"id":"1","date":"2025-01-12","clientName":"a"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Price.Units != 0 {
		t.Fatalf("expected 0, got %d", s.Price.Units)
	}
}
