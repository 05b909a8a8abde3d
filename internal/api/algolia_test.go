package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetTree_DecodesNestedChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items/1", r.URL.Path)
		fmt.Fprint(w, `{
			"id":1,"type":"story","author":"pg","title":"Y Combinator","created_at_i":100,
			"children":[
				{"id":2,"type":"comment","author":"a","text":"first","created_at_i":110,
				 "children":[{"id":3,"type":"comment","author":"b","text":"reply","created_at_i":120,"children":[]}]},
				{"id":4,"type":"comment","author":"c","text":"second","created_at_i":130,"children":[]}
			]}`)
	}))
	defer srv.Close()

	tree, err := testClient(srv).GetTree(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "story", tree.Type)
	require.Len(t, tree.Children, 2)
	require.Equal(t, 2, tree.Children[0].ID)
	require.Equal(t, 3, tree.Children[0].Children[0].ID)
	require.Equal(t, "reply", tree.Children[0].Children[0].Text)
}

func TestSearchStories_SendsQueryTagsAndPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "space elevator", q.Get("query"))
		require.Equal(t, "story", q.Get("tags"))
		require.Equal(t, "2", q.Get("page"))
		fmt.Fprint(w, `{"hits":[{"objectID":"77","title":"Up","author":"x","points":9,"num_comments":4,"created_at_i":50}],
			"page":2,"nbPages":7,"nbHits":130}`)
	}))
	defer srv.Close()

	res, err := testClient(srv).SearchStories(context.Background(), "space elevator", 2)
	require.NoError(t, err)
	require.Equal(t, 2, res.Page)
	require.Equal(t, 7, res.NbPages)
	require.Equal(t, 130, res.NbHits)
	require.Len(t, res.Items, 1)
	require.Equal(t, 77, res.Items[0].ID)
	require.Equal(t, "story", res.Items[0].Type)
	require.Equal(t, "Up", res.Items[0].Title)
}

func TestSearchStoriesByDate_UsesByDateEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search_by_date", r.URL.Path)
		fmt.Fprint(w, `{"hits":[],"page":0,"nbPages":0,"nbHits":0}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).SearchStoriesByDate(context.Background(), "go", 0)
	require.NoError(t, err)
}

func TestToItem_Story(t *testing.T) {
	hit := AlgoliaHit{
		ObjectID:    "8863",
		Title:       "My YC app",
		URL:         "http://example.com",
		Author:      "dhouston",
		Points:      104,
		NumComments: 71,
		CreatedAtI:  1175714200,
	}

	item := hit.ToItem()
	require.Equal(t, 8863, item.ID)
	require.Equal(t, "story", item.Type)
	require.Equal(t, "My YC app", item.Title)
	require.Equal(t, 104, item.Score)
	require.Equal(t, 71, item.Descendants)
}

func TestToItem_CommentParentFallsBackToStory(t *testing.T) {
	withParent := AlgoliaHit{ObjectID: "2", Author: "a", CommentText: "hi", ParentID: 42, StoryID: 7}.ToItem()
	require.Equal(t, "comment", withParent.Type)
	require.Equal(t, 42, withParent.Parent)
	require.Equal(t, 7, withParent.StoryID)

	noParent := AlgoliaHit{ObjectID: "3", Author: "b", CommentText: "yo", StoryID: 7}.ToItem()
	require.Equal(t, 7, noParent.Parent)
}

func TestGetUserComments_BuildsAuthorTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search_by_date", r.URL.Path)
		require.Equal(t, "comment,author_pg", r.URL.Query().Get("tags"))
		require.Equal(t, "30", r.URL.Query().Get("hitsPerPage"))
		fmt.Fprint(w, `{"hits":[{"objectID":"5","author":"pg","comment_text":"well","parent_id":4,
			"story_id":1,"story_title":"A story","created_at_i":60}],"page":0,"nbPages":1,"nbHits":1}`)
	}))
	defer srv.Close()

	res, err := testClient(srv).GetUserComments(context.Background(), "pg", 0, 30)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "A story", res.Items[0].StoryTitle)
	require.Equal(t, 1, res.Items[0].StoryID)
}

func TestGetNewestComments_CarriesStoryMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "comment", r.URL.Query().Get("tags"))
		fmt.Fprint(w, `{"hits":[{"objectID":"9","author":"z","comment_text":"new","parent_id":8,
			"story_id":2,"story_title":"Thing","created_at_i":90}]}`)
	}))
	defer srv.Close()

	items, err := testClient(srv).GetNewestComments(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 9, items[0].ID)
	require.Equal(t, 2, items[0].StoryID)
	require.Equal(t, "Thing", items[0].StoryTitle)
}
