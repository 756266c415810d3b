package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"apptrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	store, err := NewJSONStore(Config{Path: path})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	t.Run("creates file on first use", func(t *testing.T) {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("save and get", func(t *testing.T) {
		app := models.NewInstalledApp("com.example.app", "1.0", "Example", false)
		require.NoError(t, store.SaveApp(ctx, app))

		got, err := store.GetApp(ctx, "com.example.app")
		require.NoError(t, err)
		assert.Equal(t, "Example", got.DisplayName)
	})

	t.Run("update persists check outcome", func(t *testing.T) {
		app, err := store.GetApp(ctx, "com.example.app")
		require.NoError(t, err)

		now := time.Now().UTC()
		app.LatestVersion = "1.1"
		app.LastCheck = &now
		require.NoError(t, store.UpdateApp(ctx, app))

		got, err := store.GetApp(ctx, "com.example.app")
		require.NoError(t, err)
		assert.Equal(t, "1.1", got.LatestVersion)
		require.NotNil(t, got.LastCheck)
	})

	t.Run("update missing", func(t *testing.T) {
		missing := models.NewInstalledApp("com.missing.app", "1.0", "Missing", false)
		assert.ErrorIs(t, store.UpdateApp(ctx, missing), ErrAppNotFound)
	})

	t.Run("survives reopen", func(t *testing.T) {
		app := models.NewInstalledApp("com.busy.app", "1.0", "Busy", false)
		app.CurrentlyChecking = true
		require.NoError(t, store.SaveApp(ctx, app))

		reopened, err := NewJSONStore(Config{Path: path})
		require.NoError(t, err)
		defer reopened.Close()

		apps, err := reopened.Apps(ctx)
		require.NoError(t, err)
		assert.Len(t, apps, 2)

		// A restored record never claims an in-flight check.
		got, err := reopened.GetApp(ctx, "com.busy.app")
		require.NoError(t, err)
		assert.False(t, got.CurrentlyChecking)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteApp(ctx, "com.busy.app"))
		_, err := store.GetApp(ctx, "com.busy.app")
		assert.ErrorIs(t, err, ErrAppNotFound)
	})
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewJSONStore(Config{Path: path})
	assert.Error(t, err)
}
