package storage

import (
	"path/filepath"
	"testing"

	"apptrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	t.Run("memory", func(t *testing.T) {
		store, err := factory.Create(models.StorageConfig{Type: models.StorageTypeMemory})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("json", func(t *testing.T) {
		store, err := factory.Create(models.StorageConfig{
			Type: models.StorageTypeJSON,
			Path: filepath.Join(t.TempDir(), "apps.json"),
		})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &JSONStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := factory.Create(models.StorageConfig{
			Type:     models.StorageTypeSQLite,
			Database: models.DatabaseConfig{DSN: filepath.Join(t.TempDir(), "apps.db")},
		})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &SQLiteStore{}, store)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := factory.Create(models.StorageConfig{Type: "cassandra"})
		assert.Error(t, err)
	})
}

func TestSupportedBackends(t *testing.T) {
	backends := NewFactory().SupportedBackends()
	assert.Contains(t, backends, models.StorageTypeJSON)
	assert.Contains(t, backends, models.StorageTypeMemory)
	assert.Contains(t, backends, models.StorageTypeSQLite)
	assert.Contains(t, backends, models.StorageTypePostgres)
}
