package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"select2/internal/domain"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("directory store is closed")

// seedPeople fills an empty directory
var seedPeople = []string{
	"Maxamed Nuur",
	"Xasan Cilmi",
	"Jamac Maxamed",
}

const schema = `
CREATE TABLE IF NOT EXISTS people (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	added_at   TEXT NOT NULL DEFAULT (datetime('now'))
);`

// Store is a sqlite-backed people directory searched when the local
// option list has no match.
type Store struct {
	db    *sql.DB
	path  string
	delay time.Duration

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if needed) the directory at path and seeds it
// when empty. delay is waited before each search returns.
func Open(path string, delay time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory folder: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate directory: %w", err)
	}

	s := &Store{db: db, path: path, delay: delay}
	if err := s.seed(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("Opened directory %s", path)
	return s, nil
}

func (s *Store) seed() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM people`).Scan(&n); err != nil {
		return fmt.Errorf("failed to count people: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, name := range seedPeople {
		if _, err := s.db.Exec(`INSERT INTO people (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed directory: %w", err)
		}
	}
	log.Printf("Seeded directory with %d people", len(seedPeople))
	return nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Add inserts a person; an existing name is left as is
func (s *Store) Add(ctx context.Context, name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO people (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to add %q: %w", name, err)
	}
	return nil
}

// Search returns people whose name contains query, ignoring case, in
// insertion order. It waits for the store delay first and honours ctx.
func (s *Store) Search(ctx context.Context, query string) ([]domain.Person, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM people WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`,
		"%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}
	defer rows.Close()

	var people []domain.Person
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}
	return people, nil
}

// Close closes the database; further calls return ErrClosed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}
