package memory

import (
	"context"

	"shootbook/internal/core"
	"shootbook/internal/log"
)

// SlotReader reads the slot files afresh on every call. A separate process
// such as the sheet sync worker uses it to follow the server's writes.
// Unlike the repository it fails on a corrupt slot, so a bad file is never
// exported as an empty list.
type SlotReader struct {
	dir, shootsSlot, leadsSlot string
	logger                     *log.Logger
}

func NewSlotReader(dir, shootsSlot, leadsSlot string, logger *log.Logger) *SlotReader {
	if logger == nil {
		logger = log.Default()
	}
	return &SlotReader{dir: dir, shootsSlot: shootsSlot, leadsSlot: leadsSlot, logger: logger.WithComponent(log.ComponentStorage)}
}

func (r *SlotReader) ListShoots(_ context.Context) ([]core.Shoot, error) {
	shoots, err := readSlot[core.Shoot](slot{dir: r.dir, name: r.shootsSlot})
	if err != nil {
		r.logger.Warn("Cannot read slot", log.FieldSlot, r.shootsSlot, log.FieldError, err.Error())
		return nil, err
	}
	return shoots, nil
}

func (r *SlotReader) ListLeads(_ context.Context) ([]core.Lead, error) {
	leads, err := readSlot[core.Lead](slot{dir: r.dir, name: r.leadsSlot})
	if err != nil {
		r.logger.Warn("Cannot read slot", log.FieldSlot, r.leadsSlot, log.FieldError, err.Error())
		return nil, err
	}
	return leads, nil
}
