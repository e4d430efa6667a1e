// Package memory is an Exporter that keeps the last exported rows in
// process memory. It backs local runs without spreadsheet credentials.
package memory

import (
	"context"
	"sync"

	"shootbook/internal/core"
	ports "shootbook/internal/sheets"
)

var _ ports.Exporter = (*Exporter)(nil)

type Exporter struct {
	mu     sync.Mutex
	shoots [][]any
	leads  [][]any
	runs   int
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) ExportShoots(_ context.Context, shoots []core.Shoot) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shoots = ports.ShootRows(shoots)
	e.runs++
	return len(shoots), nil
}

func (e *Exporter) ExportLeads(_ context.Context, leads []core.Lead) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.leads = ports.LeadRows(leads)
	e.runs++
	return len(leads), nil
}

// Shoots returns the rows of the last shoot export, header included.
func (e *Exporter) Shoots() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.shoots...)
}

func (e *Exporter) Leads() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.leads...)
}

// Runs counts export calls of either kind.
func (e *Exporter) Runs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}
