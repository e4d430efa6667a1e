package backend

import (
	"context"

	"shootbook/internal/services"
	"shootbook/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds what the server needs from the data backend. The
// CRM service owns Repository and Publisher and closes both.
type BackendResult struct {
	Repository store.Repository
	// Publisher is nil when AMQP is not configured or unreachable.
	Publisher services.EventPublisher
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the read-write store for the server.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// OpenReader opens a read-only view of the same data for the sync worker.
	OpenReader(ctx context.Context, config Config) (store.Reader, CleanupFunc, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Memory backend
	DataDirectory string
	ShootsSlot    string
	LeadsSlot     string

	// SQLite backend
	SQLiteDBPath string

	// Change events, optional for both backends
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of data backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
