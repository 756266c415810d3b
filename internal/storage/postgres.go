package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apptrack/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using PostgreSQL, for
// deployments where several trackers share one record database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS apps (
	package_name   TEXT PRIMARY KEY,
	display_name   TEXT NOT NULL,
	version        TEXT NOT NULL,
	latest_version TEXT NOT NULL DEFAULT '',
	fatal_error    BOOLEAN NOT NULL DEFAULT FALSE,
	last_check     TIMESTAMPTZ,
	system_app     BOOLEAN NOT NULL DEFAULT FALSE
)
`

// NewPostgresStore creates a new PostgreSQL store instance and ensures the
// schema exists.
func NewPostgresStore(config Config) (*PostgresStore, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL storage")
	}

	pool, err := pgxpool.New(context.Background(), config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(context.Background(), postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Apps returns all tracked application records.
func (p *PostgresStore) Apps(ctx context.Context) ([]*models.InstalledApp, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT package_name, display_name, version, latest_version, fatal_error, last_check, system_app
		 FROM apps ORDER BY package_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer rows.Close()

	var apps []*models.InstalledApp
	for rows.Next() {
		app, err := scanPGApp(rows)
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
func (p *PostgresStore) GetApp(ctx context.Context, packageName string) (*models.InstalledApp, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT package_name, display_name, version, latest_version, fatal_error, last_check, system_app
		 FROM apps WHERE package_name = $1`, packageName)

	app, err := scanPGApp(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// SaveApp stores or replaces a record.
func (p *PostgresStore) SaveApp(ctx context.Context, app *models.InstalledApp) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO apps (package_name, display_name, version, latest_version, fatal_error, last_check, system_app)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (package_name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			version = EXCLUDED.version,
			latest_version = EXCLUDED.latest_version,
			fatal_error = EXCLUDED.fatal_error,
			last_check = EXCLUDED.last_check,
			system_app = EXCLUDED.system_app`,
		app.PackageName, app.DisplayName, app.Version, app.LatestVersion,
		app.FatalError, app.LastCheck, app.SystemApp)
	if err != nil {
		return fmt.Errorf("failed to save app: %w", err)
	}
	return nil
}

// UpdateApp commits a check outcome onto an existing record.
func (p *PostgresStore) UpdateApp(ctx context.Context, app *models.InstalledApp) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE apps SET
			display_name = $1, version = $2, latest_version = $3,
			fatal_error = $4, last_check = $5, system_app = $6
		 WHERE package_name = $7`,
		app.DisplayName, app.Version, app.LatestVersion,
		app.FatalError, app.LastCheck, app.SystemApp, app.PackageName)
	if err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppNotFound
	}
	return nil
}

// DeleteApp stops tracking a package.
func (p *PostgresStore) DeleteApp(ctx context.Context, packageName string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM apps WHERE package_name = $1`, packageName)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppNotFound
	}
	return nil
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanPGApp(row pgx.Row) (*models.InstalledApp, error) {
	var (
		app       models.InstalledApp
		lastCheck *time.Time
	)
	if err := row.Scan(&app.PackageName, &app.DisplayName, &app.Version,
		&app.LatestVersion, &app.FatalError, &lastCheck, &app.SystemApp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan app: %w", err)
	}
	app.LastCheck = lastCheck
	return &app, nil
}
