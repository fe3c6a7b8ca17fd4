// Package history persists console input history in SQLite.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/footprint-tools/console/internal/domain"
	"github.com/footprint-tools/console/internal/history/migrations"
	"github.com/footprint-tools/console/internal/log"
)

// Store records input lines. Each Store tags the lines it writes with a
// session id. The session column is kept for inspecting the database by
// hand; no query filters on it.
type Store struct {
	db      *sql.DB
	path    string
	session string
}

// New opens the database at path, creating it and its directory when
// missing, and applies pending migrations.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	setDBPermissions(path)

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := NewWithDB(db)
	s.path = path
	log.Debug("history: opened %s (session %s)", path, s.session)
	return s, nil
}

// NewWithDB wraps a migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, session: uuid.NewString()}
}

// Session returns the id stamped on lines appended by this Store.
func (s *Store) Session() string {
	return s.session
}

// Append records one input line.
func (s *Store) Append(line string) error {
	_, err := s.db.Exec("INSERT INTO history (line, session) VALUES (?, ?)", line, s.session)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit of the latest lines, oldest first, repeats
// included. Duplicate handling is left to the caller.
func (s *Store) Recent(limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query("SELECT line FROM history ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

// Trim deletes all but the latest keep rows.
func (s *Store) Trim(keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, max(keep, 0))
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// Clear deletes every stored line.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// setDBPermissions restricts the database and its WAL/SHM files to the owner.
func setDBPermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

var _ domain.HistoryStore = (*Store)(nil)
