package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"ringtimer/internal/core/model"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

const presetsDBFileName = "presets.db"

// SQLitePresets stores presets in an SQLite database, ordered by insertion.
type SQLitePresets struct {
	db *sql.DB
}

// NewSQLitePresets opens the database at dsn, creating its directory and tables.
func NewSQLitePresets(dsn string) (*SQLitePresets, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open presets database: dsn not set")
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open presets database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping presets database: %w", err)
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("run presets migrations: %w", err)
	}
	slog.Debug("SQLite presets database ready", "dsn", dsn)
	return &SQLitePresets{db: db}, nil
}

// Add inserts saved after every existing preset.
func (store *SQLitePresets) Add(saved model.SavedTimer) error {
	_, err := store.db.Exec(
		`INSERT INTO presets (id, title, minutes, seconds, audio_file, audio_file_name, elapsed_time) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.Title, saved.Minutes, saved.Seconds, saved.AudioFile, saved.AudioFileName, saved.ElapsedTime,
	)
	if err != nil {
		return fmt.Errorf("insert preset %d: %w", saved.ID, err)
	}
	slog.Debug("SQLitePresets Add succeeded", "id", saved.ID)
	return nil
}

// Remove deletes the preset with id. Unknown ids are ignored.
func (store *SQLitePresets) Remove(id int64) error {
	if _, err := store.db.Exec(`DELETE FROM presets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete preset %d: %w", id, err)
	}
	return nil
}

// List returns presets in insertion order.
func (store *SQLitePresets) List() ([]model.SavedTimer, error) {
	rows, err := store.db.Query(`SELECT id, title, minutes, seconds, audio_file, audio_file_name, elapsed_time FROM presets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	var entries []model.SavedTimer
	for rows.Next() {
		var saved model.SavedTimer
		if err := rows.Scan(&saved.ID, &saved.Title, &saved.Minutes, &saved.Seconds, &saved.AudioFile, &saved.AudioFileName, &saved.ElapsedTime); err != nil {
			return nil, fmt.Errorf("scan preset row: %w", err)
		}
		entries = append(entries, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preset rows: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (store *SQLitePresets) Close() error {
	return store.db.Close()
}
