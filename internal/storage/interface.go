package storage

import (
	"context"

	"apptrack/internal/models"
)

// Store defines the persistence contract for tracked application records.
// It provides a clean abstraction that can be implemented by different
// backends such as JSON files or databases.
//
// The check resolver calls UpdateApp exactly once per completed cascade;
// everything else is bookkeeping for discovery and the HTTP surface.
type Store interface {
	// Apps returns all tracked application records.
	Apps(ctx context.Context) ([]*models.InstalledApp, error)

	// GetApp retrieves a record by its package name. Returns
	// ErrAppNotFound when the package is not tracked.
	GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error)

	// SaveApp stores a newly discovered record, or replaces an existing
	// one with the same package name.
	SaveApp(ctx context.Context, app *models.InstalledApp) error

	// UpdateApp commits the outcome of a check cascade onto an existing
	// record. Returns ErrAppNotFound when the package is not tracked.
	UpdateApp(ctx context.Context, app *models.InstalledApp) error

	// DeleteApp stops tracking a package. Returns ErrAppNotFound when the
	// package is not tracked.
	DeleteApp(ctx context.Context, packageName string) error

	// Close closes the storage connection and cleans up resources.
	Close() error
}

// Config holds configuration for storage backends.
type Config struct {
	// Type specifies the storage backend type (json, memory, sqlite, postgres).
	Type string `json:"type" yaml:"type"`

	// Path is used for file-based storage backends.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ConnectionString is used for database backends.
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// Options carries additional backend-specific settings.
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}
