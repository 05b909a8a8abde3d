package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoKey is returned by GetJSON for absent keys.
var ErrNoKey = errors.New("store: key not found")

// GetJSON reads a key and unmarshals its value into dst.
func (s *Store) GetJSON(key string, dst interface{}) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNoKey
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decoding value for %q: %w", key, err)
	}
	return nil
}

// PutJSON marshals v and stores it under key.
func (s *Store) PutJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding value for %q: %w", key, err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, string(raw))
	return err
}

// DeleteKey removes a key. Deleting an absent key is a no-op.
func (s *Store) DeleteKey(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
