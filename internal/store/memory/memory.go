// Package memory keeps shoots and leads in process memory and writes each
// collection back to its JSON slot file after every mutation.
package memory

import (
	"context"
	"fmt"
	"sync"

	"shootbook/internal/core"
	"shootbook/internal/log"
)

type Store struct {
	mu     sync.Mutex
	shoots []core.Shoot
	leads  []core.Lead

	shootSlot slot
	leadSlot  slot
	logger    *log.Logger
}

// New returns a store with no backing files.
func New() *Store {
	return &Store{logger: log.Default().WithComponent(log.ComponentStorage)}
}

// Open loads both slots from dir. Missing or corrupt slots start empty.
func Open(dir, shootsSlot, leadsSlot string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		shootSlot: slot{dir: dir, name: shootsSlot},
		leadSlot:  slot{dir: dir, name: leadsSlot},
		logger:    logger.WithComponent(log.ComponentStorage),
	}
	load(s.shootSlot, s.logger, &s.shoots)
	load(s.leadSlot, s.logger, &s.leads)
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) ListShoots(_ context.Context) ([]core.Shoot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Shoot(nil), s.shoots...), nil
}

func (s *Store) GetShoot(_ context.Context, id string) (core.Shoot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.shoots, id, shootID)
	if i < 0 {
		return core.Shoot{}, fmt.Errorf("shoot %s: %w", id, core.ErrNotFound)
	}
	return s.shoots[i], nil
}

func (s *Store) CreateShoot(_ context.Context, sh core.Shoot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Shoot, 0, len(s.shoots)+1)
	next = append(next, sh)
	next = append(next, s.shoots...)
	return s.commitShoots(next)
}

func (s *Store) UpdateShoot(_ context.Context, sh core.Shoot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.shoots, sh.ID, shootID)
	if i < 0 {
		return fmt.Errorf("shoot %s: %w", sh.ID, core.ErrNotFound)
	}
	next := append([]core.Shoot(nil), s.shoots...)
	sh.CreatedAt = next[i].CreatedAt
	next[i] = sh
	return s.commitShoots(next)
}

func (s *Store) DeleteShoot(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.shoots, id, shootID)
	if i < 0 {
		return fmt.Errorf("shoot %s: %w", id, core.ErrNotFound)
	}
	next := make([]core.Shoot, 0, len(s.shoots)-1)
	next = append(next, s.shoots[:i]...)
	next = append(next, s.shoots[i+1:]...)
	return s.commitShoots(next)
}

func (s *Store) ReplaceShoots(_ context.Context, shoots []core.Shoot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitShoots(append([]core.Shoot(nil), shoots...))
}

func (s *Store) ListLeads(_ context.Context) ([]core.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Lead(nil), s.leads...), nil
}

func (s *Store) GetLead(_ context.Context, id string) (core.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.leads, id, leadID)
	if i < 0 {
		return core.Lead{}, fmt.Errorf("lead %s: %w", id, core.ErrNotFound)
	}
	return s.leads[i], nil
}

func (s *Store) CreateLead(_ context.Context, l core.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Lead, 0, len(s.leads)+1)
	next = append(next, l)
	next = append(next, s.leads...)
	return s.commitLeads(next)
}

func (s *Store) UpdateLead(_ context.Context, l core.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.leads, l.ID, leadID)
	if i < 0 {
		return fmt.Errorf("lead %s: %w", l.ID, core.ErrNotFound)
	}
	next := append([]core.Lead(nil), s.leads...)
	l.CreatedAt = next[i].CreatedAt
	next[i] = l
	return s.commitLeads(next)
}

func (s *Store) DeleteLead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.leads, id, leadID)
	if i < 0 {
		return fmt.Errorf("lead %s: %w", id, core.ErrNotFound)
	}
	next := make([]core.Lead, 0, len(s.leads)-1)
	next = append(next, s.leads[:i]...)
	next = append(next, s.leads[i+1:]...)
	return s.commitLeads(next)
}

func (s *Store) ReplaceLeads(_ context.Context, leads []core.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLeads(append([]core.Lead(nil), leads...))
}

// commitShoots persists next and only then swaps it in, so a failed write
// leaves the previous state visible. Callers hold mu.
func (s *Store) commitShoots(next []core.Shoot) error {
	if err := persist(s.shootSlot, next); err != nil {
		s.logger.Error("Failed to persist shoots",
			log.FieldSlot, s.shootSlot.name, log.FieldOperation, log.OpPersist, log.FieldError, err.Error())
		return err
	}
	s.shoots = next
	return nil
}

func (s *Store) commitLeads(next []core.Lead) error {
	if err := persist(s.leadSlot, next); err != nil {
		s.logger.Error("Failed to persist leads",
			log.FieldSlot, s.leadSlot.name, log.FieldOperation, log.OpPersist, log.FieldError, err.Error())
		return err
	}
	s.leads = next
	return nil
}

func shootID(s core.Shoot) string { return s.ID }
func leadID(l core.Lead) string   { return l.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}
