// Package history keeps a local audit log of the write requests sent to
// the backend.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/migrations"
	"github.com/studiowebux/catalog/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// Manager stores history entries in sqlite
type Manager struct {
	db *sql.DB
}

// NewManager opens the database at dbPath and applies pending migrations
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record saves one entry
func (m *Manager) Record(entry types.HistoryEntry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := m.db.Exec(`
		INSERT INTO history (
			request_id, timestamp, method, path, body, status, duration_ms, error, profile_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		ts.UTC().Format(timestampLayout),
		entry.Method,
		entry.Path,
		nullable(entry.Body),
		entry.Status,
		entry.Duration,
		nullable(entry.Error),
		entry.ProfileName,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// Load returns the entries of a profile, newest first. An empty profile
// returns every entry. A limit of 0 or less means no limit.
func (m *Manager) Load(profileName string, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := m.db.Query(`
		SELECT id, request_id, timestamp, method, path, body, status, duration_ms, error, COALESCE(profile_name, '')
		FROM history
		WHERE ? = '' OR profile_name = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		profileName, profileName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns the entry with the request id
func (m *Manager) Get(requestID string) (*types.HistoryEntry, error) {
	rows, err := m.db.Query(`
		SELECT id, request_id, timestamp, method, path, body, status, duration_ms, error, COALESCE(profile_name, '')
		FROM history
		WHERE request_id = ?`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("history entry %s not found", requestID)
	}
	return &entries[0], nil
}

// Clear deletes the entries of a profile, or all entries when the profile
// is empty. It returns the number of deleted entries.
func (m *Manager) Clear(profileName string) (int64, error) {
	res, err := m.db.Exec(`DELETE FROM history WHERE ? = '' OR profile_name = ?`, profileName, profileName)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var (
			entry     types.HistoryEntry
			timestamp string
			body      sql.NullString
			errorMsg  sql.NullString
		)

		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&timestamp,
			&entry.Method,
			&entry.Path,
			&body,
			&entry.Status,
			&entry.Duration,
			&errorMsg,
			&entry.ProfileName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC)
		if err != nil {
			// the driver hands DATETIME columns back as time.Time, which database/sql formats as RFC3339
			parsed, err = time.Parse(time.RFC3339Nano, timestamp)
			if err != nil {
				parsed = time.Time{}
			}
		}
		entry.Timestamp = parsed.Local()
		entry.Body = body.String
		entry.Error = errorMsg.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
