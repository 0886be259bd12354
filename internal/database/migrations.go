package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration is one versioned schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Schema migrations are compiled in and applied in version order at startup.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_activities",
		SQL: `
			CREATE TABLE IF NOT EXISTS activities (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				fingerprint TEXT NOT NULL,
				flight_date TEXT,
				file_url TEXT,
				text TEXT,
				stats_json TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_activities_user_fingerprint
				ON activities(user_id, fingerprint) WHERE fingerprint != '';
			CREATE INDEX IF NOT EXISTS idx_activities_user_date
				ON activities(user_id, flight_date);
		`,
	},
	{
		Version: 2,
		Name:    "create_uploads",
		SQL: `
			CREATE TABLE IF NOT EXISTS uploads (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				file_name TEXT NOT NULL,
				file_url TEXT NOT NULL,
				size_bytes INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// Migrate applies all pending migrations
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		zap.L().Info("applied migration", zap.Int("version", m.Version), zap.String("name", m.Name))
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func apply(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
