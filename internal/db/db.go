package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrwolf/journaly/internal/models"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

const schema = `
-- Finished journal entries, one row per entry id
CREATE TABLE IF NOT EXISTS journal_entries (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    summary TEXT NOT NULL,
    full_text TEXT NOT NULL,
    mood TEXT NOT NULL,
    turns TEXT NOT NULL,          -- JSON array of turns
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_created ON journal_entries(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_entries_mood ON journal_entries(mood);
`

// fixed width so created_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database at path. MemoryPath or an empty path
// gives an in-memory database that lives as long as the DB.
func Open(path string) (*DB, error) {
	memory := path == "" || path == MemoryPath
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	if memory {
		dsn = "file::memory:?_busy_timeout=5000"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// every connection would get its own empty database
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		conn.SetConnMaxIdleTime(0)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Upsert inserts an entry or replaces the row with the same id
func (db *DB) Upsert(ctx context.Context, e models.JournalEntry) error {
	turns := e.Turns
	if turns == nil {
		turns = []models.Turn{}
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encoding turns: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO journal_entries (id, created_at, summary, full_text, mood, turns, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			summary = excluded.summary,
			full_text = excluded.full_text,
			mood = excluded.mood,
			turns = excluded.turns,
			updated_at = excluded.updated_at
	`, e.ID, e.CreatedAt.UTC().Format(timeLayout), e.Summary, e.FullText, string(e.Mood), string(turnsJSON), now)
	if err != nil {
		return fmt.Errorf("upserting entry: %w", err)
	}
	return nil
}

// Get returns the entry with id, or models.ErrEntryNotFound
func (db *DB) Get(ctx context.Context, id string) (models.JournalEntry, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, created_at, summary, full_text, mood, turns
		FROM journal_entries WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JournalEntry{}, models.ErrEntryNotFound
	}
	if err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

// List returns all entries, most recent first
func (db *DB) List(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, created_at, summary, full_text, mood, turns
		FROM journal_entries
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var createdAt, mood, turnsJSON string
	if err := s.Scan(&e.ID, &createdAt, &e.Summary, &e.FullText, &mood, &turnsJSON); err != nil {
		return models.JournalEntry{}, err
	}

	var err error
	e.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("parsing created_at for %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(turnsJSON), &e.Turns); err != nil {
		return models.JournalEntry{}, fmt.Errorf("decoding turns for %s: %w", e.ID, err)
	}
	e.Mood = models.CoerceMood(mood)
	return e, nil
}
