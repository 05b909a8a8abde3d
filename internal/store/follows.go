package store

import (
	"database/sql"
	"time"
)

// Follow is a followed user. LastSeen is the largest submitted item id
// already accounted for; Unread counts submissions found past it.
type Follow struct {
	Username string
	AddedAt  time.Time
	LastSeen int
	Unread   int
}

// Follow starts following a user. Following again is a no-op that keeps the
// existing unread state.
func (s *Store) Follow(username string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO follows (username, added_at, last_seen, unread)
		VALUES (?, ?, 0, 0)`, username, time.Now().Unix())
	return err
}

// Unfollow stops following a user and drops their unread state.
func (s *Store) Unfollow(username string) error {
	_, err := s.db.Exec(`DELETE FROM follows WHERE username = ?`, username)
	return err
}

// IsFollowing reports whether the user is followed.
func (s *Store) IsFollowing(username string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE username = ?`, username).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollows returns all followed users, most recently followed first.
func (s *Store) ListFollows() ([]Follow, error) {
	rows, err := s.db.Query(`SELECT username, added_at, last_seen, unread
		FROM follows ORDER BY added_at DESC, username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Follow
	for rows.Next() {
		var f Follow
		var addedAt int64
		if err := rows.Scan(&f.Username, &addedAt, &f.LastSeen, &f.Unread); err != nil {
			return nil, err
		}
		f.AddedAt = time.Unix(addedAt, 0)
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetFollow returns one followed user, or nil if not followed.
func (s *Store) GetFollow(username string) (*Follow, error) {
	row := s.db.QueryRow(`SELECT username, added_at, last_seen, unread FROM follows WHERE username = ?`, username)
	var f Follow
	var addedAt int64
	err := row.Scan(&f.Username, &addedAt, &f.LastSeen, &f.Unread)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.AddedAt = time.Unix(addedAt, 0)
	return &f, nil
}

// RecordActivity moves last_seen forward and adds n unread submissions.
func (s *Store) RecordActivity(username string, lastSeen, n int) error {
	_, err := s.db.Exec(`UPDATE follows SET last_seen = ?, unread = unread + ? WHERE username = ?`,
		lastSeen, n, username)
	return err
}

// ClearUnread marks a followed user's activity as seen.
func (s *Store) ClearUnread(username string) error {
	_, err := s.db.Exec(`UPDATE follows SET unread = 0 WHERE username = ?`, username)
	return err
}

// TotalUnread sums unread activity across all followed users.
func (s *Store) TotalUnread() int {
	var n int
	s.db.QueryRow(`SELECT COALESCE(SUM(unread), 0) FROM follows`).Scan(&n)
	return n
}
