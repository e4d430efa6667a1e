// Package store defines the persistence ports for shoots and leads.
package store

import (
	"context"

	"shootbook/internal/core"
)

// Ports for the persistence adapters. Lists are newest first; Create
// prepends, Update keeps position, id and createdAt.
type (
	ShootRepository interface {
		ListShoots(ctx context.Context) ([]core.Shoot, error)
		GetShoot(ctx context.Context, id string) (core.Shoot, error)
		CreateShoot(ctx context.Context, s core.Shoot) error
		UpdateShoot(ctx context.Context, s core.Shoot) error
		DeleteShoot(ctx context.Context, id string) error
		ReplaceShoots(ctx context.Context, shoots []core.Shoot) error
	}

	LeadRepository interface {
		ListLeads(ctx context.Context) ([]core.Lead, error)
		GetLead(ctx context.Context, id string) (core.Lead, error)
		CreateLead(ctx context.Context, l core.Lead) error
		UpdateLead(ctx context.Context, l core.Lead) error
		DeleteLead(ctx context.Context, id string) error
		ReplaceLeads(ctx context.Context, leads []core.Lead) error
	}

	// Reader is the read side used by the sheet sync worker.
	Reader interface {
		ListShoots(ctx context.Context) ([]core.Shoot, error)
		ListLeads(ctx context.Context) ([]core.Lead, error)
	}

	// Repository is the full store a CRM service runs against.
	Repository interface {
		ShootRepository
		LeadRepository
		Close() error
	}
)
