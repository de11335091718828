// Package readlog keeps a local history of card reads in sqlite.
package readlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const DefaultLimit = 50

// timeLayout has a fixed width so read_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one successful card read.
type Entry struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	UserID      int64     `json:"user_id" yaml:"user_id"`
	CardID      string    `json:"card_id" yaml:"card_id"`
	ReadAt      time.Time `json:"read_at" yaml:"read_at"`
	DataTypes   []string  `json:"data_types" yaml:"data_types"`
	RecordCount int       `json:"record_count" yaml:"record_count"`
}

type Store struct {
	db *sql.DB
}

// Open creates the database at path and its schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("readlog: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("readlog: open database: %w", err)
	}
	// sqlite serialises writers anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS card_reads (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		card_id TEXT NOT NULL,
		read_at TEXT NOT NULL,
		data_types TEXT NOT NULL DEFAULT '',
		record_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_card_reads_read_at ON card_reads(read_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("readlog: create schema: %w", err)
	}
	return nil
}

// Append stores e. A zero ID or ReadAt is filled in and the stored entry is
// returned.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ReadAt.IsZero() {
		e.ReadAt = time.Now()
	}
	e.ReadAt = e.ReadAt.UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO card_reads (id, user_id, card_id, read_at, data_types, record_count) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.UserID, e.CardID, e.ReadAt.Format(timeLayout), strings.Join(e.DataTypes, ","), e.RecordCount,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("readlog: append: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, card_id, read_at, data_types, record_count FROM card_reads ORDER BY read_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("readlog: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			id       string
			readAt   string
			dataType string
		)
		if err := rows.Scan(&id, &e.UserID, &e.CardID, &readAt, &dataType, &e.RecordCount); err != nil {
			return nil, fmt.Errorf("readlog: scan: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("readlog: entry id %q: %w", id, err)
		}
		if e.ReadAt, err = time.Parse(timeLayout, readAt); err != nil {
			return nil, fmt.Errorf("readlog: entry time %q: %w", readAt, err)
		}
		if dataType != "" {
			e.DataTypes = strings.Split(dataType, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
