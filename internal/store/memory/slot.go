package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shootbook/internal/log"
)

// slot is one named JSON document holding an ordered list.
type slot struct {
	dir  string
	name string
}

func (s slot) path() string {
	return filepath.Join(s.dir, s.name+".json")
}

// readSlot decodes the slot. A missing slot is empty; an unreadable or
// corrupt one is an error.
func readSlot[T any](s slot) ([]T, error) {
	items := []T{}
	if s.dir == "" {
		return items, nil
	}
	b, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, fmt.Errorf("read slot %s: %w", s.name, err)
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", s.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// load decodes the slot into out at startup. A missing slot leaves out
// untouched; a corrupt one is reported and also leaves out untouched.
func load[T any](s slot, logger *log.Logger, out *[]T) {
	if s.dir == "" {
		return
	}
	if _, err := os.Stat(s.path()); os.IsNotExist(err) {
		return
	}
	items, err := readSlot[T](s)
	if err != nil {
		logger.Warn("Slot corrupt, starting empty",
			log.FieldSlot, s.name, log.FieldError, err.Error())
		return
	}
	*out = items
	logger.Info("Slot loaded",
		log.FieldSlot, s.name, log.FieldOperation, log.OpLoad, log.FieldRecordCount, len(items))
}

// persist writes items through a temp file and rename so a crash never
// leaves a half-written slot behind.
func persist[T any](s slot, items []T) error {
	if s.dir == "" {
		return nil
	}
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", s.name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, s.name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("replace slot %s: %w", s.name, err)
	}
	return nil
}
