// Package core provides money parsing and handling utilities.
//
// Prices are whole currency units (shekels); fractional input is rounded
// half-up when parsed.
package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in whole currency units.
type Money struct {
	Units int64
}

// ParsePrice converts a decimal string to whole units with half-up rounding.
//
// Only the dot is a decimal separator. A comma is rejected rather than read
// as a thousands or decimal mark, so "1,800" never becomes 2. Zero is a valid
// price; negative values, signs and non-digits are rejected.
//
// Examples:
//
//	ParsePrice("1800")   -> 1800, nil
//	ParsePrice("1800.5") -> 1801, nil
//	ParsePrice("1,800")  -> 0, ErrInvalidPrice
//	ParsePrice("abc")    -> 0, ErrInvalidPrice
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidPrice
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidPrice
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidPrice
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv == math.MaxInt64 {
		return 0, ErrInvalidPrice
	}
	if fracPart != "" && fracPart[0] >= '5' {
		iv++
	}
	return iv, nil
}

func (m Money) Validate() error {
	if m.Units < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Units, 10), nil
}

// UnmarshalJSON never fails: a price that is missing, null or not numeric
// decodes as zero, matching how stored lists written by older clients are read.
func (m *Money) UnmarshalJSON(b []byte) error {
	m.Units = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if v, err := ParsePrice(s); err == nil {
			m.Units = v
		}
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	rounded := math.Floor(f + 0.5)
	// out-of-range values are corrupt, not clamped
	if rounded < 0 || rounded >= math.MaxInt64 {
		return nil
	}
	m.Units = int64(rounded)
	return nil
}
