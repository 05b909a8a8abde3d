package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding all local state: item and list
// caches, bookmarks, followed users, user tags and settings.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			by_user TEXT,
			time_unix INTEGER,
			text TEXT,
			parent_id INTEGER,
			url TEXT,
			title TEXT,
			score INTEGER DEFAULT 0,
			descendants INTEGER DEFAULT 0,
			kids TEXT,
			dead INTEGER DEFAULT 0,
			deleted INTEGER DEFAULT 0,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_by_user ON items(by_user)`,

		`CREATE TABLE IF NOT EXISTS story_lists (
			list_type TEXT PRIMARY KEY,
			item_ids TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			created INTEGER,
			karma INTEGER,
			about TEXT,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bookmarks (
			item_id INTEGER PRIMARY KEY,
			title TEXT,
			url TEXT,
			by_user TEXT,
			score INTEGER DEFAULT 0,
			time_unix INTEGER,
			added_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS follows (
			username TEXT PRIMARY KEY,
			added_at INTEGER NOT NULL,
			last_seen INTEGER DEFAULT 0,
			unread INTEGER DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS user_tags (
			username TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			added_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
