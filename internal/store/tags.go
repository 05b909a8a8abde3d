package store

import (
	"database/sql"
	"time"
)

// TagUser attaches a short local label to a username. An empty label clears
// the tag.
func (s *Store) TagUser(username, label string) error {
	if label == "" {
		return s.ClearUserTag(username)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO user_tags (username, label, added_at) VALUES (?, ?, ?)`,
		username, label, time.Now().Unix())
	return err
}

// ClearUserTag removes a user's tag.
func (s *Store) ClearUserTag(username string) error {
	_, err := s.db.Exec(`DELETE FROM user_tags WHERE username = ?`, username)
	return err
}

// UserTag returns the tag for a username, or "" when untagged.
func (s *Store) UserTag(username string) (string, error) {
	var label string
	err := s.db.QueryRow(`SELECT label FROM user_tags WHERE username = ?`, username).Scan(&label)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return label, nil
}

// UserTags returns all tags keyed by username, for bulk feed annotation.
func (s *Store) UserTags() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT username, label FROM user_tags`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[string]string)
	for rows.Next() {
		var username, label string
		if err := rows.Scan(&username, &label); err != nil {
			return nil, err
		}
		tags[username] = label
	}
	return tags, rows.Err()
}
