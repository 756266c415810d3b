package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"apptrack/internal/models"
)

// JSONStore implements the Store interface using a JSON file for
// persistence. The whole data set is held in memory and flushed to disk on
// every mutation; the tracked-app population of a single device is small
// enough that this stays cheap.
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	data     *jsonData
}

// jsonData is the on-disk structure.
type jsonData struct {
	Apps        []*models.InstalledApp `json:"apps"`
	LastUpdated time.Time              `json:"last_updated"`
}

// NewJSONStore creates a new JSON-file-backed store instance.
func NewJSONStore(config Config) (*JSONStore, error) {
	store := &JSONStore{
		filePath: config.Path,
	}

	if err := store.ensureFileExists(); err != nil {
		return nil, fmt.Errorf("failed to ensure file exists: %w", err)
	}
	if err := store.loadData(); err != nil {
		return nil, fmt.Errorf("failed to load initial data: %w", err)
	}

	return store, nil
}

// ensureFileExists creates the JSON file with empty data if it doesn't exist.
func (j *JSONStore) ensureFileExists() error {
	if _, err := os.Stat(j.filePath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(j.filePath), 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		empty := &jsonData{
			Apps:        []*models.InstalledApp{},
			LastUpdated: time.Now(),
		}
		return j.saveData(empty)
	}
	return nil
}

// loadData reads the file into memory.
func (j *JSONStore) loadData() error {
	raw, err := os.ReadFile(j.filePath)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var data jsonData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}
	if data.Apps == nil {
		data.Apps = []*models.InstalledApp{}
	}

	j.data = &data
	return nil
}

// saveData writes the data set atomically via a temp file rename.
func (j *JSONStore) saveData(data *jsonData) error {
	data.LastUpdated = time.Now()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tmpPath := j.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, j.filePath); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	j.data = data
	return nil
}

// Apps returns all tracked application records.
func (j *JSONStore) Apps(ctx context.Context) ([]*models.InstalledApp, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	apps := make([]*models.InstalledApp, 0, len(j.data.Apps))
	for _, app := range j.data.Apps {
		appCopy := *app
		apps = append(apps, &appCopy)
	}
	return apps, nil
}

// GetApp retrieves a record by its package name.
func (j *JSONStore) GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	for _, app := range j.data.Apps {
		if app.PackageName == packageName {
			appCopy := *app
			return &appCopy, nil
		}
	}
	return nil, ErrAppNotFound
}

// SaveApp stores or replaces a record.
func (j *JSONStore) SaveApp(ctx context.Context, app *models.InstalledApp) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	appCopy := *app
	appCopy.CurrentlyChecking = false

	data := &jsonData{Apps: make([]*models.InstalledApp, 0, len(j.data.Apps)+1)}
	replaced := false
	for _, existing := range j.data.Apps {
		if existing.PackageName == app.PackageName {
			data.Apps = append(data.Apps, &appCopy)
			replaced = true
			continue
		}
		data.Apps = append(data.Apps, existing)
	}
	if !replaced {
		data.Apps = append(data.Apps, &appCopy)
	}

	return j.saveData(data)
}

// UpdateApp commits a check outcome onto an existing record.
func (j *JSONStore) UpdateApp(ctx context.Context, app *models.InstalledApp) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, existing := range j.data.Apps {
		if existing.PackageName == app.PackageName {
			appCopy := *app
			appCopy.CurrentlyChecking = false

			data := &jsonData{Apps: make([]*models.InstalledApp, len(j.data.Apps))}
			copy(data.Apps, j.data.Apps)
			data.Apps[i] = &appCopy
			return j.saveData(data)
		}
	}
	return ErrAppNotFound
}

// DeleteApp stops tracking a package.
func (j *JSONStore) DeleteApp(ctx context.Context, packageName string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, existing := range j.data.Apps {
		if existing.PackageName == packageName {
			data := &jsonData{Apps: make([]*models.InstalledApp, 0, len(j.data.Apps)-1)}
			data.Apps = append(data.Apps, j.data.Apps[:i]...)
			data.Apps = append(data.Apps, j.data.Apps[i+1:]...)
			return j.saveData(data)
		}
	}
	return ErrAppNotFound
}

// Close is a no-op; every mutation is already flushed.
func (j *JSONStore) Close() error {
	return nil
}
