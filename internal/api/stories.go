package api

import (
	"context"
	"fmt"
)

var storyEndpoints = map[StoryType]string{
	StoryTypeTop:  "/topstories.json",
	StoryTypeNew:  "/newstories.json",
	StoryTypeBest: "/beststories.json",
	StoryTypeAsk:  "/askstories.json",
	StoryTypeShow: "/showstories.json",
	StoryTypeJobs: "/jobstories.json",
}

// GetStoryIDs fetches the list of story IDs for a given story type.
func (c *Client) GetStoryIDs(ctx context.Context, st StoryType) ([]int, error) {
	path, ok := storyEndpoints[st]
	if !ok {
		return nil, fmt.Errorf("unknown story type: %s", st)
	}
	var ids []int
	if err := c.get(ctx, c.baseURL+path, &ids); err != nil {
		return nil, fmt.Errorf("fetching %s stories: %w", st, err)
	}
	return ids, nil
}
