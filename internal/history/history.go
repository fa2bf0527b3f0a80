// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package history keeps past analysis runs in a local sqlite file so
// reports survive the terminal session that produced them.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound marks a lookup that matched no entry.
var ErrNotFound = errors.New("analysis not found")

// Entry is one recorded analysis.
type Entry struct {
	ID        string
	RepoURL   string
	Branch    string
	CreatedAt time.Time
	Languages string // comma-joined, for listings
	Findings  int
	Summary   string
	Report    string // full markdown
}

// Store is a sqlite-backed analysis archive. Safe for use from one
// process at a time, which is all a CLI needs.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	repo_url   TEXT NOT NULL,
	branch     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	languages  TEXT NOT NULL DEFAULT '',
	findings   INTEGER NOT NULL DEFAULT 0,
	summary    TEXT NOT NULL DEFAULT '',
	report     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_repo ON analyses(repo_url);
`

// Open opens or creates the archive at path. ":memory:" works and is
// what the tests use.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts the entry, assigning an id and timestamp when absent,
// and returns the stored form.
func (s *Store) Save(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := s.db.Exec(
		`INSERT INTO analyses (id, repo_url, branch, created_at, languages, findings, summary, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RepoURL, e.Branch, e.CreatedAt.Format(time.RFC3339Nano),
		e.Languages, e.Findings, e.Summary, e.Report,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("saving analysis: %w", err)
	}
	return e, nil
}

// List returns the newest entries, report bodies omitted. limit 0
// means 20.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, repo_url, branch, created_at, languages, findings, summary
		 FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Search returns entries whose repo url or summary contains the term,
// newest first.
func (s *Store) Search(term string) ([]Entry, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(
		`SELECT id, repo_url, branch, created_at, languages, findings, summary
		 FROM analyses
		 WHERE repo_url LIKE ? OR summary LIKE ?
		 ORDER BY created_at DESC, id`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Get fetches one entry, report included. idOrPrefix may be a unique
// prefix of the id, so users can paste the short form from a listing.
func (s *Store) Get(idOrPrefix string) (Entry, error) {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return Entry{}, err
	}

	row := s.db.QueryRow(
		`SELECT id, repo_url, branch, created_at, languages, findings, summary, report
		 FROM analyses WHERE id = ?`, id)

	var e Entry
	var created string
	err = row.Scan(&e.ID, &e.RepoURL, &e.Branch, &created, &e.Languages, &e.Findings, &e.Summary, &e.Report)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("loading analysis %s: %w", id, err)
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}

// Delete removes one entry, accepting the same prefixes Get does.
func (s *Store) Delete(idOrPrefix string) error {
	id, err := s.resolve(idOrPrefix)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM analyses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	return nil
}

// Clear drops everything and reports how many entries went away.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of stored analyses.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}
	return n, nil
}

// resolve maps an id or unique id prefix to the full id.
func (s *Store) resolve(idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}

	rows, err := s.db.Query(
		`SELECT id FROM analyses WHERE id LIKE ? LIMIT 2`, idOrPrefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolving analysis id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous", idOrPrefix)
	}
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.RepoURL, &e.Branch, &created, &e.Languages, &e.Findings, &e.Summary); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
