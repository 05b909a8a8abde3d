package store

import (
	"database/sql"
	"time"

	"kindling/internal/api"
)

// Bookmark is a locally saved story.
type Bookmark struct {
	ItemID  int
	Title   string
	URL     string
	By      string
	Score   int
	Time    int64
	AddedAt time.Time
}

// Item converts the bookmark back to an api.Item for list rendering.
func (b Bookmark) Item() *api.Item {
	return &api.Item{
		ID:    b.ItemID,
		Type:  "story",
		Title: b.Title,
		URL:   b.URL,
		By:    b.By,
		Score: b.Score,
		Time:  b.Time,
	}
}

// AddBookmark saves a story. Re-adding an existing bookmark refreshes its
// snapshot but keeps it a single row.
func (s *Store) AddBookmark(item *api.Item) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO bookmarks
		(item_id, title, url, by_user, score, time_unix, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, nullStr(item.Title), nullStr(item.URL), nullStr(item.By),
		item.Score, item.Time, time.Now().Unix())
	return err
}

// RemoveBookmark deletes a saved story.
func (s *Store) RemoveBookmark(itemID int) error {
	_, err := s.db.Exec(`DELETE FROM bookmarks WHERE item_id = ?`, itemID)
	return err
}

// IsBookmarked reports whether the story is saved.
func (s *Store) IsBookmarked(itemID int) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE item_id = ?`, itemID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBookmarks returns all saved stories, most recently added first.
func (s *Store) ListBookmarks() ([]Bookmark, error) {
	rows, err := s.db.Query(`SELECT item_id, title, url, by_user, score, time_unix, added_at
		FROM bookmarks ORDER BY added_at DESC, item_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Bookmark
	for rows.Next() {
		var b Bookmark
		var title, url, by sql.NullString
		var addedAt int64
		if err := rows.Scan(&b.ItemID, &title, &url, &by, &b.Score, &b.Time, &addedAt); err != nil {
			return nil, err
		}
		b.Title = title.String
		b.URL = url.String
		b.By = by.String
		b.AddedAt = time.Unix(addedAt, 0)
		result = append(result, b)
	}
	return result, rows.Err()
}
