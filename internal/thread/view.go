package thread

import (
	"sort"
	"strings"

	"kindling/internal/render"
)

// replyToLabelLen caps the parent snippet shown above flattened comments.
const replyToLabelLen = 60

// Row is one visible entry of a projection. Rows are snapshots; the UI
// renders them without reaching back into the tree.
type Row struct {
	Comment        *Comment
	Level          int
	Collapsed      bool   // nested: this node is collapsed
	HiddenCount    int    // nested: descendants hidden under a collapsed node
	MissingReplies int    // nested: children listed remotely but not fetched
	ReplyToLabel   string // recent: story title or parent snippet
}

// Rows returns the active projection: grep-filtered when a term is set,
// otherwise nested or recent-first per the sort mode.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.grepTerm != "":
		return s.grepRows()
	case s.sortMode == SortRecent:
		return s.recentRows()
	default:
		return s.nestedRows()
	}
}

// NestedRows is the tree as-is, depth-first, honoring collapse state. A
// collapsed node stays visible but hides its subtree.
func (s *Session) NestedRows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nestedRows()
}

func (s *Session) nestedRows() []Row {
	var rows []Row
	var walk func(nodes []*Comment)
	walk = func(nodes []*Comment) {
		for _, c := range nodes {
			row := Row{
				Comment:        c,
				Level:          c.Level,
				Collapsed:      s.collapsed[c.ID],
				MissingReplies: len(c.ChildIDs) - len(c.Children),
			}
			if row.Collapsed {
				row.HiddenCount = subtreeSize(c)
			}
			rows = append(rows, row)
			if !row.Collapsed {
				walk(c.Children)
			}
		}
	}
	walk(s.comments)
	return rows
}

// RecentRows flattens every loaded comment into one list sorted newest
// first, ties keeping tree walk order. Each row is annotated with what it
// replied to.
func (s *Session) RecentRows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentRows()
}

func (s *Session) recentRows() []Row {
	var rows []Row
	var walk func(nodes []*Comment)
	walk = func(nodes []*Comment) {
		for _, c := range nodes {
			rows = append(rows, Row{
				Comment:      c,
				Level:        c.Level,
				ReplyToLabel: s.replyToLabel(c),
			})
			walk(c.Children)
		}
	}
	walk(s.comments)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Comment.CreatedAt > rows[j].Comment.CreatedAt
	})
	return rows
}

// replyToLabel names what a flattened comment replied to: the story title
// for top-level comments, otherwise a snippet of the parent comment's text.
func (s *Session) replyToLabel(c *Comment) string {
	if c.Level == 0 {
		if s.story == nil {
			return ""
		}
		return s.story.Title
	}
	parent := findParent(s.comments, c.ID)
	if parent == nil {
		return ""
	}
	return render.Truncate(render.InlineText(parent.Text), replyToLabelLen)
}

// GrepRows walks the entire tree and collects comments whose text or author
// contains the term, case-insensitively, in tree walk order.
func (s *Session) GrepRows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grepRows()
}

func (s *Session) grepRows() []Row {
	term := strings.ToLower(s.grepTerm)
	if term == "" {
		return nil
	}
	var rows []Row
	var walk func(nodes []*Comment)
	walk = func(nodes []*Comment) {
		for _, c := range nodes {
			if strings.Contains(strings.ToLower(c.Text), term) ||
				strings.Contains(strings.ToLower(c.Author), term) {
				rows = append(rows, Row{Comment: c, Level: c.Level})
			}
			walk(c.Children)
		}
	}
	walk(s.comments)
	return rows
}
