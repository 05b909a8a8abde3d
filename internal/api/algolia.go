package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// AlgoliaResponse is the search response from the Algolia HN API.
type AlgoliaResponse struct {
	Hits    []AlgoliaHit `json:"hits"`
	Page    int          `json:"page"`
	NbPages int          `json:"nbPages"`
	NbHits  int          `json:"nbHits"`
}

// AlgoliaHit is a single search result.
type AlgoliaHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAtI  int64  `json:"created_at_i"`
	StoryText   string `json:"story_text"`
	CommentText string `json:"comment_text"`
	ParentID    int    `json:"parent_id"`
	StoryID     int    `json:"story_id"`
	StoryTitle  string `json:"story_title"`
	StoryURL    string `json:"story_url"`
}

// ToItem converts an Algolia hit to an api.Item. This is the only place the
// flat search shape crosses into the canonical item type.
func (h AlgoliaHit) ToItem() *Item {
	var id int
	fmt.Sscanf(h.ObjectID, "%d", &id)

	item := &Item{
		ID:         id,
		By:         h.Author,
		Time:       h.CreatedAtI,
		Score:      h.Points,
		StoryID:    h.StoryID,
		StoryTitle: h.StoryTitle,
	}

	if h.Title != "" {
		// It's a story.
		item.Type = "story"
		item.Title = h.Title
		item.URL = h.URL
		item.Descendants = h.NumComments
		item.Text = h.StoryText
	} else {
		// It's a comment. The index is inconsistent about parent fields, so
		// fall back to the story id when parent_id is absent.
		item.Type = "comment"
		item.Text = h.CommentText
		item.Parent = h.ParentID
		if item.Parent == 0 {
			item.Parent = h.StoryID
		}
	}

	return item
}

// TreeItem is the nested item shape from the Algolia /items endpoint. The
// whole comment tree arrives in one response.
type TreeItem struct {
	ID         int        `json:"id"`
	CreatedAtI int64      `json:"created_at_i"`
	Author     string     `json:"author"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Text       string     `json:"text"`
	Points     int        `json:"points"`
	Type       string     `json:"type"`
	Children   []TreeItem `json:"children"`
}

// GetTree fetches an item and its full nested comment tree in one call.
func (c *Client) GetTree(ctx context.Context, id int) (*TreeItem, error) {
	url := fmt.Sprintf("%s/items/%d", c.algoliaURL, id)
	var item TreeItem
	if err := c.get(ctx, url, &item); err != nil {
		return nil, fmt.Errorf("fetching item tree %d: %w", id, err)
	}
	return &item, nil
}

// SearchResult is one page of Algolia search results converted to items.
type SearchResult struct {
	Items   []*Item
	Page    int
	NbPages int
	NbHits  int
}

func (c *Client) searchPage(ctx context.Context, endpoint string, params url.Values) (*SearchResult, error) {
	u := fmt.Sprintf("%s/%s?%s", c.algoliaURL, endpoint, params.Encode())
	var resp AlgoliaResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	items := make([]*Item, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		items = append(items, hit.ToItem())
	}
	return &SearchResult{
		Items:   items,
		Page:    resp.Page,
		NbPages: resp.NbPages,
		NbHits:  resp.NbHits,
	}, nil
}

// SearchStories runs a relevance-ranked story search.
func (c *Client) SearchStories(ctx context.Context, query string, page int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("tags", "story")
	params.Set("page", strconv.Itoa(page))
	res, err := c.searchPage(ctx, "search", params)
	if err != nil {
		return nil, fmt.Errorf("searching stories: %w", err)
	}
	return res, nil
}

// SearchStoriesByDate runs a newest-first story search.
func (c *Client) SearchStoriesByDate(ctx context.Context, query string, page int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("tags", "story")
	params.Set("page", strconv.Itoa(page))
	res, err := c.searchPage(ctx, "search_by_date", params)
	if err != nil {
		return nil, fmt.Errorf("searching stories by date: %w", err)
	}
	return res, nil
}

// GetPastStories fetches yesterday's front page stories via Algolia.
func (c *Client) GetPastStories(ctx context.Context, limit int) ([]*Item, error) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	startOfYesterday := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, yesterday.Location())
	endOfYesterday := startOfYesterday.AddDate(0, 0, 1)

	url := fmt.Sprintf("%s/search?tags=front_page&numericFilters=created_at_i>%d,created_at_i<%d&hitsPerPage=%d",
		c.algoliaURL, startOfYesterday.Unix(), endOfYesterday.Unix(), limit)

	var resp AlgoliaResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetching past stories: %w", err)
	}

	items := make([]*Item, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		items = append(items, hit.ToItem())
	}
	return items, nil
}

// GetNewestComments fetches the newest comments site-wide via Algolia.
func (c *Client) GetNewestComments(ctx context.Context, limit int) ([]*Item, error) {
	url := fmt.Sprintf("%s/search_by_date?tags=comment&hitsPerPage=%d",
		c.algoliaURL, limit)

	var resp AlgoliaResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetching newest comments: %w", err)
	}

	items := make([]*Item, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		items = append(items, hit.ToItem())
	}
	return items, nil
}

// GetUserComments fetches a page of a user's recent comments, newest first.
// Each comment carries the title and id of its containing story.
func (c *Client) GetUserComments(ctx context.Context, username string, page, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("tags", fmt.Sprintf("comment,author_%s", username))
	params.Set("page", strconv.Itoa(page))
	params.Set("hitsPerPage", strconv.Itoa(limit))
	res, err := c.searchPage(ctx, "search_by_date", params)
	if err != nil {
		return nil, fmt.Errorf("fetching comments by %s: %w", username, err)
	}
	return res, nil
}

// GetUserStories fetches a page of a user's submitted stories, newest first.
func (c *Client) GetUserStories(ctx context.Context, username string, page, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("tags", fmt.Sprintf("story,author_%s", username))
	params.Set("page", strconv.Itoa(page))
	params.Set("hitsPerPage", strconv.Itoa(limit))
	res, err := c.searchPage(ctx, "search_by_date", params)
	if err != nil {
		return nil, fmt.Errorf("fetching stories by %s: %w", username, err)
	}
	return res, nil
}
