// Package sheets mirrors the shoot and lead collections into spreadsheets.
package sheets

import (
	"context"

	"shootbook/internal/core"
)

// Exporter rewrites a whole collection into its sheet and returns the
// number of data rows written.
type Exporter interface {
	ExportShoots(ctx context.Context, shoots []core.Shoot) (int, error)
	ExportLeads(ctx context.Context, leads []core.Lead) (int, error)
}
