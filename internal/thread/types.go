package thread

import (
	"kindling/internal/api"
)

// Comment is one node of a story's comment tree.
type Comment struct {
	ID        int
	Author    string
	Text      string
	CreatedAt int64
	Level     int
	Children  []*Comment
	ChildIDs  []int
}

// HasMoreReplies reports whether the remote item lists children that have
// not been fetched yet.
func (c *Comment) HasMoreReplies() bool {
	return len(c.ChildIDs) > len(c.Children)
}

// Story is the root of a comment tree.
type Story struct {
	ID              int
	Title           string
	URL             string
	Text            string
	Author          string
	CreatedAt       int64
	ChildIDs        []int
	DescendantCount int
}

// commentFromItem converts a Firebase item into a tree node at the given
// level. Children are attached by the loader.
func commentFromItem(it *api.Item, level int) *Comment {
	return &Comment{
		ID:        it.ID,
		Author:    it.By,
		Text:      it.Text,
		CreatedAt: it.Time,
		Level:     level,
		ChildIDs:  append([]int(nil), it.Kids()...),
	}
}

// storyFromItem converts a Firebase item into the tree root.
func storyFromItem(it *api.Item) *Story {
	return &Story{
		ID:              it.ID,
		Title:           it.Title,
		URL:             it.URL,
		Text:            it.Text,
		Author:          it.By,
		CreatedAt:       it.Time,
		ChildIDs:        append([]int(nil), it.Kids()...),
		DescendantCount: it.Descendants,
	}
}

// commentFromTree converts a nested search-index node and its whole subtree.
// Deleted nodes (no author, no text) are dropped along with their subtrees.
func commentFromTree(node *api.TreeItem, level int) *Comment {
	c := &Comment{
		ID:        node.ID,
		Author:    node.Author,
		Text:      node.Text,
		CreatedAt: node.CreatedAtI,
		Level:     level,
	}
	for i := range node.Children {
		child := &node.Children[i]
		if child.Author == "" && child.Text == "" {
			continue
		}
		c.ChildIDs = append(c.ChildIDs, child.ID)
		c.Children = append(c.Children, commentFromTree(child, level+1))
	}
	return c
}

// storyFromTree converts the root of a nested search-index response. The
// descendant count is recomputed from the walk rather than trusting a
// remote field.
func storyFromTree(node *api.TreeItem) (*Story, []*Comment) {
	story := &Story{
		ID:        node.ID,
		Title:     node.Title,
		URL:       node.URL,
		Text:      node.Text,
		Author:    node.Author,
		CreatedAt: node.CreatedAtI,
	}
	var roots []*Comment
	for i := range node.Children {
		child := &node.Children[i]
		if child.Author == "" && child.Text == "" {
			continue
		}
		story.ChildIDs = append(story.ChildIDs, child.ID)
		roots = append(roots, commentFromTree(child, 0))
	}
	story.DescendantCount = countNodes(roots)
	return story, roots
}
