package storage

import (
	"fmt"

	"apptrack/internal/models"
)

// Factory provides a centralized way to create store instances based on
// configuration, so backends can be swapped without code changes.
type Factory struct{}

// NewFactory creates a new storage factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a store based on the provided configuration.
// Supported backends:
//   - json: JSON file-based storage (thread-safe, flushed per mutation)
//   - memory: in-memory storage (for testing/development)
//   - sqlite: SQLite database storage (single-node)
//   - postgres: PostgreSQL database storage (shared deployments)
func (f *Factory) Create(config models.StorageConfig) (Store, error) {
	storageConfig := Config{
		Type:             config.Type,
		Path:             config.Path,
		ConnectionString: config.Database.DSN,
		Options:          config.Options,
	}

	switch config.Type {
	case models.StorageTypeJSON:
		return NewJSONStore(storageConfig)
	case models.StorageTypeMemory:
		return NewMemoryStore(storageConfig)
	case models.StorageTypeSQLite:
		return NewSQLiteStore(storageConfig)
	case models.StorageTypePostgres:
		return NewPostgresStore(storageConfig)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}

// SupportedBackends returns all supported store types.
func (f *Factory) SupportedBackends() []string {
	return []string{models.StorageTypeJSON, models.StorageTypeMemory, models.StorageTypeSQLite, models.StorageTypePostgres}
}
