package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kindling/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestItemRoundTrip(t *testing.T) {
	s := openTestStore(t)

	item := &api.Item{
		ID:          8863,
		Type:        "story",
		By:          "dhouston",
		Time:        1175714200,
		Title:       "My YC app",
		URL:         "http://example.com",
		Score:       104,
		Descendants: 71,
		RawKids:     json.RawMessage(`[9224,8917]`),
	}
	require.NoError(t, s.PutItem(item))

	got, fresh, err := s.GetItem(8863, time.Hour)
	require.NoError(t, err)
	require.True(t, fresh)
	require.Equal(t, "My YC app", got.Title)
	require.Equal(t, "dhouston", got.By)
	require.Equal(t, []int{9224, 8917}, got.Kids())
}

func TestGetItem_MissReturnsNil(t *testing.T) {
	s := openTestStore(t)

	got, fresh, err := s.GetItem(999, time.Hour)
	require.NoError(t, err)
	require.False(t, fresh)
	require.Nil(t, got)
}

func TestGetItem_ZeroTTLIsStale(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutItem(&api.Item{ID: 1, Type: "comment"}))

	got, fresh, err := s.GetItem(1, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, fresh)
}

func TestStoryListRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutStoryList("top", []int{5, 3, 9}))

	ids, fresh, err := s.GetStoryList("top", time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)
	require.Equal(t, []int{5, 3, 9}, ids)
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutUser(&api.User{ID: "pg", Created: 1160418092, Karma: 155111, About: "essays"}))

	got, fresh, err := s.GetUser("pg", time.Hour)
	require.NoError(t, err)
	require.True(t, fresh)
	require.Equal(t, 155111, got.Karma)
	require.Equal(t, "essays", got.About)
}

func TestBookmarks_AddListRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.AddBookmark(&api.Item{ID: 1, Type: "story", Title: "first", Time: 100}))
	require.NoError(t, s.AddBookmark(&api.Item{ID: 2, Type: "story", Title: "second", Time: 200}))

	saved, err := s.IsBookmarked(1)
	require.NoError(t, err)
	require.True(t, saved)

	list, err := s.ListBookmarks()
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, s.RemoveBookmark(1))
	saved, err = s.IsBookmarked(1)
	require.NoError(t, err)
	require.False(t, saved)

	list, err = s.ListBookmarks()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "second", list[0].Title)
	require.Equal(t, 2, list[0].Item().ID)
}

func TestBookmarks_ReAddKeepsSingleRow(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AddBookmark(&api.Item{ID: 1, Type: "story", Title: "old title"}))
	require.NoError(t, s.AddBookmark(&api.Item{ID: 1, Type: "story", Title: "new title"}))

	list, err := s.ListBookmarks()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new title", list[0].Title)
}

func TestFollows_UnreadLifecycle(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Follow("pg"))
	require.NoError(t, s.Follow("tomhow"))

	following, err := s.IsFollowing("pg")
	require.NoError(t, err)
	require.True(t, following)

	require.NoError(t, s.RecordActivity("pg", 500, 3))
	require.NoError(t, s.RecordActivity("tomhow", 800, 2))
	require.Equal(t, 5, s.TotalUnread())

	f, err := s.GetFollow("pg")
	require.NoError(t, err)
	require.Equal(t, 500, f.LastSeen)
	require.Equal(t, 3, f.Unread)

	require.NoError(t, s.ClearUnread("pg"))
	require.Equal(t, 2, s.TotalUnread())

	require.NoError(t, s.Unfollow("tomhow"))
	require.Equal(t, 0, s.TotalUnread())

	list, err := s.ListFollows()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "pg", list[0].Username)
}

func TestFollow_AgainKeepsState(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Follow("pg"))
	require.NoError(t, s.RecordActivity("pg", 500, 3))

	require.NoError(t, s.Follow("pg"))

	f, err := s.GetFollow("pg")
	require.NoError(t, err)
	require.Equal(t, 3, f.Unread)
	require.Equal(t, 500, f.LastSeen)
}

func TestUserTags(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.TagUser("pg", "founder"))
	require.NoError(t, s.TagUser("dang", "mod"))

	label, err := s.UserTag("pg")
	require.NoError(t, err)
	require.Equal(t, "founder", label)

	all, err := s.UserTags()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"pg": "founder", "dang": "mod"}, all)

	// Empty label clears.
	require.NoError(t, s.TagUser("pg", ""))
	label, err = s.UserTag("pg")
	require.NoError(t, err)
	require.Equal(t, "", label)
}

func TestKV_JSONRoundTripAndMiss(t *testing.T) {
	s := openTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, s.PutJSON("p", payload{Name: "x", Count: 3}))

	var got payload
	require.NoError(t, s.GetJSON("p", &got))
	require.Equal(t, payload{Name: "x", Count: 3}, got)

	var missing payload
	err := s.GetJSON("absent", &missing)
	require.ErrorIs(t, err, ErrNoKey)

	require.NoError(t, s.DeleteKey("p"))
	require.ErrorIs(t, s.GetJSON("p", &got), ErrNoKey)
}

func TestSettings_DefaultsAndSave(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Settings()
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), got)

	got.CommentSort = "recent"
	got.DefaultList = "best"
	require.NoError(t, s.SaveSettings(got))

	reloaded, err := s.Settings()
	require.NoError(t, err)
	require.Equal(t, "recent", reloaded.CommentSort)
	require.Equal(t, "best", reloaded.DefaultList)
}
