// Package analytics derives the revenue, lifetime-value and follow-up views
// from the shoot and lead collections.
//
// Every function is pure: the caller passes the collections and the calendar
// day to evaluate against, and nothing is cached between calls.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shootbook/internal/core"
)

// Revenue windows selectable in the analytics view, in months.
const (
	Window3  Window = 3
	Window6  Window = 6
	Window12 Window = 12
)

var ErrInvalidWindow = errors.New("invalid revenue window")

type (
	Window int

	// MonthlyRevenue is one bucket of the revenue series.
	MonthlyRevenue struct {
		Month string     `json:"month"` // YYYY-MM
		Total core.Money `json:"total"`
	}

	// ClientValue is the lifetime value of the client behind one phone number.
	ClientValue struct {
		Name  string     `json:"name"`
		Phone string     `json:"phone"`
		Total core.Money `json:"total"`
		Count int        `json:"count"`
	}
)

// Windows returns the supported revenue windows, largest first.
func Windows() []Window {
	return []Window{Window12, Window6, Window3}
}

func (w Window) Validate() error {
	switch w {
	case Window3, Window6, Window12:
		return nil
	default:
		return fmt.Errorf("%w: %d (must be 3, 6 or 12)", ErrInvalidWindow, int(w))
	}
}

// RevenueSeries sums shoot prices per calendar month for the window months
// ending with today's month. Months without shoots are present with a zero
// total and the series is in chronological order.
func RevenueSeries(shoots []core.Shoot, window Window, today core.Date) ([]MonthlyRevenue, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	n := int(window)
	series := make([]MonthlyRevenue, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := today.AddMonths(i - n + 1).MonthKey()
		series[i] = MonthlyRevenue{Month: key}
		index[key] = i
	}
	for _, s := range shoots {
		if i, ok := index[s.Date.MonthKey()]; ok {
			series[i].Total.Units += s.Price.Units
		}
	}
	return series, nil
}

// ClientLTV folds shoots into one entry per trimmed phone value, ordered by
// total revenue descending. Ties keep the order in which phones were first seen.
//
// Shoots with an empty phone all share the "" key and are reported as a single
// client.
func ClientLTV(shoots []core.Shoot) []ClientValue {
	byPhone := make(map[string]*ClientValue)
	order := make([]*ClientValue, 0)
	for _, s := range shoots {
		key := strings.TrimSpace(s.Phone)
		name := strings.TrimSpace(s.ClientName)
		acc, ok := byPhone[key]
		if !ok {
			acc = &ClientValue{Name: name, Phone: key}
			byPhone[key] = acc
			order = append(order, acc)
		}
		if name != "" {
			acc.Name = name
		}
		acc.Total.Units += s.Price.Units
		acc.Count++
	}

	out := make([]ClientValue, len(order))
	for i, acc := range order {
		out[i] = *acc
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Units > out[j].Total.Units
	})
	return out
}

// PastRevenue sums the prices of shoots dated before the first day of today's
// month, i.e. revenue up to the end of the previous month.
func PastRevenue(shoots []core.Shoot, today core.Date) core.Money {
	cutoff := today.FirstOfMonth()
	var total core.Money
	for _, s := range shoots {
		if s.Date.Less(cutoff) {
			total.Units += s.Price.Units
		}
	}
	return total
}
