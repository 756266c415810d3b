package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"apptrack/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface on a local SQLite database.
// Suitable for single-node deployments where the JSON file store is not
// robust enough.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS apps (
	package_name   TEXT PRIMARY KEY,
	display_name   TEXT NOT NULL,
	version        TEXT NOT NULL,
	latest_version TEXT NOT NULL DEFAULT '',
	fatal_error    INTEGER NOT NULL DEFAULT 0,
	last_check     TEXT,
	system_app     INTEGER NOT NULL DEFAULT 0
);
`

// NewSQLiteStore creates a new SQLite store instance and ensures the
// schema exists.
func NewSQLiteStore(config Config) (*SQLiteStore, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for SQLite storage")
	}

	db, err := sql.Open("sqlite", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Apps returns all tracked application records.
func (s *SQLiteStore) Apps(ctx context.Context) ([]*models.InstalledApp, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT package_name, display_name, version, latest_version, fatal_error, last_check, system_app
		 FROM apps ORDER BY package_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer rows.Close()

	var apps []*models.InstalledApp
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate apps: %w", err)
	}
	return apps, nil
}

// GetApp retrieves a record by its package name.
func (s *SQLiteStore) GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT package_name, display_name, version, latest_version, fatal_error, last_check, system_app
		 FROM apps WHERE package_name = ?`, packageName)

	app, err := scanApp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// SaveApp stores or replaces a record.
func (s *SQLiteStore) SaveApp(ctx context.Context, app *models.InstalledApp) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO apps (package_name, display_name, version, latest_version, fatal_error, last_check, system_app)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(package_name) DO UPDATE SET
			display_name = excluded.display_name,
			version = excluded.version,
			latest_version = excluded.latest_version,
			fatal_error = excluded.fatal_error,
			last_check = excluded.last_check,
			system_app = excluded.system_app`,
		app.PackageName, app.DisplayName, app.Version, app.LatestVersion,
		boolToInt(app.FatalError), timeToNull(app.LastCheck), boolToInt(app.SystemApp))
	if err != nil {
		return fmt.Errorf("failed to save app: %w", err)
	}
	return nil
}

// UpdateApp commits a check outcome onto an existing record.
func (s *SQLiteStore) UpdateApp(ctx context.Context, app *models.InstalledApp) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE apps SET
			display_name = ?, version = ?, latest_version = ?,
			fatal_error = ?, last_check = ?, system_app = ?
		 WHERE package_name = ?`,
		app.DisplayName, app.Version, app.LatestVersion,
		boolToInt(app.FatalError), timeToNull(app.LastCheck), boolToInt(app.SystemApp),
		app.PackageName)
	if err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrAppNotFound
	}
	return nil
}

// DeleteApp stops tracking a package.
func (s *SQLiteStore) DeleteApp(ctx context.Context, packageName string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM apps WHERE package_name = ?`, packageName)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrAppNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanApp(sc scanner) (*models.InstalledApp, error) {
	var (
		app       models.InstalledApp
		fatal     int
		system    int
		lastCheck sql.NullString
	)
	if err := sc.Scan(&app.PackageName, &app.DisplayName, &app.Version,
		&app.LatestVersion, &fatal, &lastCheck, &system); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan app: %w", err)
	}
	app.FatalError = fatal == 1
	app.SystemApp = system == 1

	if lastCheck.Valid && lastCheck.String != "" {
		t, err := time.Parse(time.RFC3339Nano, lastCheck.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last check time: %w", err)
		}
		app.LastCheck = &t
	}
	return &app, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}
