package backend

import (
	"context"
	"fmt"

	"shootbook/internal/amqp"
	"shootbook/internal/log"
	"shootbook/internal/services"
	"shootbook/internal/storage"
	"shootbook/internal/store"
	"shootbook/internal/store/memory"
)

const defaultDataDirectory = "data"

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend",
			"db_path", config.SQLiteDBPath,
			"schema_version", repo.SchemaVersion())
		result = &BackendResult{Repository: repo, Ready: repo.Ping}
	case MemoryBackend:
		dir := dataDirectory(config)
		repo := memory.Open(dir, config.ShootsSlot, config.LeadsSlot, f.logger)
		f.logger.Info("Initialized memory backend",
			"data_directory", dir,
			log.FieldSlot, config.ShootsSlot+","+config.LeadsSlot)
		result = &BackendResult{Repository: repo}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result.Publisher = f.newPublisher(config)
	return result, nil
}

// OpenReader implements Factory.OpenReader
func (f *DefaultFactory) OpenReader(ctx context.Context, config Config) (store.Reader, CleanupFunc, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite repository: %w", err)
		}
		return repo, repo.Close, nil
	case MemoryBackend:
		reader := memory.NewSlotReader(dataDirectory(config), config.ShootsSlot, config.LeadsSlot, f.logger)
		return reader, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// newPublisher connects the change-event publisher. The server keeps
// running without events when the broker is unavailable.
func (f *DefaultFactory) newPublisher(config Config) services.EventPublisher {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err.Error())
		// a typed nil would defeat the service's nil check
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func dataDirectory(config Config) string {
	if config.DataDirectory == "" {
		return defaultDataDirectory
	}
	return config.DataDirectory
}
