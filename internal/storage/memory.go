package storage

import (
	"context"
	"sync"

	"apptrack/internal/models"
)

// MemoryStore implements the Store interface using in-memory data
// structures. Ideal for development and testing; data is lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[string]*models.InstalledApp
}

// NewMemoryStore creates a new memory-based store instance.
func NewMemoryStore(config Config) (*MemoryStore, error) {
	return &MemoryStore{
		apps: make(map[string]*models.InstalledApp),
	}, nil
}

// Apps returns all tracked application records.
func (m *MemoryStore) Apps(ctx context.Context) ([]*models.InstalledApp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]*models.InstalledApp, 0, len(m.apps))
	for _, app := range m.apps {
		// Return a copy to prevent external modification
		appCopy := *app
		apps = append(apps, &appCopy)
	}
	return apps, nil
}

// GetApp retrieves a record by its package name.
func (m *MemoryStore) GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, exists := m.apps[packageName]
	if !exists {
		return nil, ErrAppNotFound
	}

	appCopy := *app
	return &appCopy, nil
}

// SaveApp stores or replaces a record.
func (m *MemoryStore) SaveApp(ctx context.Context, app *models.InstalledApp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	appCopy := *app
	appCopy.CurrentlyChecking = false
	m.apps[app.PackageName] = &appCopy
	return nil
}

// UpdateApp commits a check outcome onto an existing record.
func (m *MemoryStore) UpdateApp(ctx context.Context, app *models.InstalledApp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[app.PackageName]; !exists {
		return ErrAppNotFound
	}

	appCopy := *app
	appCopy.CurrentlyChecking = false
	m.apps[app.PackageName] = &appCopy
	return nil
}

// DeleteApp stops tracking a package.
func (m *MemoryStore) DeleteApp(ctx context.Context, packageName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[packageName]; !exists {
		return ErrAppNotFound
	}
	delete(m.apps, packageName)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
