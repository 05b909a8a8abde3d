package thread

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sessionWithTree injects a hand-built tree, bypassing the loader.
func sessionWithTree(story *Story, roots []*Comment) *Session {
	s := NewSession(nil, nil, Options{Debounce: -1}, nil)
	s.story = story
	s.comments = roots
	s.threadCount = len(roots)
	s.totalCount = countNodes(roots)
	return s
}

func rowIDs(rows []Row) []int {
	var ids []int
	for _, r := range rows {
		ids = append(ids, r.Comment.ID)
	}
	return ids
}

func TestNestedRows_DepthFirstWithLevels(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111, branch(1111)), branch(112)),
		branch(12),
	))

	rows := s.NestedRows()
	require.Equal(t, []int{11, 111, 1111, 112, 12}, rowIDs(rows))
	var levels []int
	for _, r := range rows {
		levels = append(levels, r.Level)
	}
	require.Equal(t, []int{0, 1, 2, 1, 0}, levels)
}

func TestNestedRows_CollapsedNodeHidesSubtree(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111, branch(1111))),
		branch(12),
	))
	s.SetCollapsed(11, true)

	rows := s.NestedRows()
	require.Equal(t, []int{11, 12}, rowIDs(rows))
	require.True(t, rows[0].Collapsed)
	require.Equal(t, 2, rows[0].HiddenCount)
	require.False(t, rows[1].Collapsed)
	require.Zero(t, rows[1].HiddenCount)
}

func TestNestedRows_CollapsedReplyKeepsSiblings(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111, branch(1111)), branch(112)),
	))
	s.SetCollapsed(111, true)

	require.Equal(t, []int{11, 111, 112}, rowIDs(s.NestedRows()))
}

func TestNestedRows_ReportsMissingReplies(t *testing.T) {
	truncated := branch(11, branch(111))
	truncated.ChildIDs = append(truncated.ChildIDs, 112, 113)
	s := sessionWithTree(&Story{ID: 1}, forest(truncated))

	rows := s.NestedRows()
	require.Equal(t, 2, rows[0].MissingReplies)
	require.True(t, rows[0].Comment.HasMoreReplies())
	require.Zero(t, rows[1].MissingReplies)
}

func TestRecentRows_NewestFirst(t *testing.T) {
	first := branch(11)
	first.CreatedAt = 100
	reply := branch(111)
	reply.CreatedAt = 300
	first.Children = []*Comment{reply}
	first.ChildIDs = []int{111}
	second := branch(12)
	second.CreatedAt = 200

	s := sessionWithTree(&Story{ID: 1}, forest(first, second))

	rows := s.RecentRows()
	require.Equal(t, []int{111, 12, 11}, rowIDs(rows))
	var times []int64
	for _, r := range rows {
		times = append(times, r.Comment.CreatedAt)
	}
	require.Equal(t, []int64{300, 200, 100}, times)
}

func TestRecentRows_TiesKeepWalkOrder(t *testing.T) {
	roots := forest(branch(11, branch(111)), branch(12))
	for _, r := range roots {
		r.CreatedAt = 500
	}
	roots[0].Children[0].CreatedAt = 500

	s := sessionWithTree(&Story{ID: 1}, roots)
	require.Equal(t, []int{11, 111, 12}, rowIDs(s.RecentRows()))
}

func TestRecentRows_LabelsTopLevelWithStoryTitle(t *testing.T) {
	s := sessionWithTree(
		&Story{ID: 1, Title: "My YC app: Dropbox"},
		forest(branch(11)),
	)

	rows := s.RecentRows()
	require.Equal(t, "My YC app: Dropbox", rows[0].ReplyToLabel)
}

func TestRecentRows_LabelsReplyWithParentSnippet(t *testing.T) {
	parent := branch(11)
	parent.Text = "short point"
	reply := branch(111)
	parent.Children = []*Comment{reply}
	parent.ChildIDs = []int{111}

	s := sessionWithTree(&Story{ID: 1, Title: "title"}, forest(parent))

	rows := s.RecentRows()
	for _, r := range rows {
		if r.Comment.ID == 111 {
			require.Equal(t, "short point", r.ReplyToLabel)
		}
	}
}

func TestRecentRows_LabelTruncatesLongParent(t *testing.T) {
	parent := branch(11)
	parent.Text = "<p>" + strings.Repeat("argument ", 20) + "</p>"
	reply := branch(111)
	parent.Children = []*Comment{reply}
	parent.ChildIDs = []int{111}

	s := sessionWithTree(&Story{ID: 1}, forest(parent))

	var label string
	for _, r := range s.RecentRows() {
		if r.Comment.ID == 111 {
			label = r.ReplyToLabel
		}
	}
	require.True(t, strings.HasSuffix(label, "…"))
	require.LessOrEqual(t, len([]rune(label)), replyToLabelLen+1)
	require.NotContains(t, label, "<p>")
}

func TestGrepRows_MatchesTextCaseInsensitive(t *testing.T) {
	hello := branch(11)
	hello.Text = "Hello World"
	other := branch(12)
	other.Text = "unrelated"

	s := sessionWithTree(&Story{ID: 1}, forest(hello, other))
	s.SetGrepTerm("world")

	require.Equal(t, []int{11}, rowIDs(s.GrepRows()))

	s.SetGrepTerm("WORLD")
	require.Equal(t, []int{11}, rowIDs(s.GrepRows()))
}

func TestGrepRows_MatchesAuthor(t *testing.T) {
	c := branch(11)
	c.Author = "tptacek"
	c.Text = "nothing matching here"

	s := sessionWithTree(&Story{ID: 1}, forest(c, branch(12)))
	s.SetGrepTerm("PTAC")

	require.Equal(t, []int{11}, rowIDs(s.GrepRows()))
}

func TestGrepRows_WalksWholeTreeInOrder(t *testing.T) {
	match1 := branch(11)
	match1.Text = "rust rewrite"
	miss := branch(111)
	miss.Text = "no thanks"
	match2 := branch(1111)
	match2.Text = "Rust is fine"
	miss.Children = []*Comment{match2}
	miss.ChildIDs = []int{1111}
	match1.Children = []*Comment{miss}
	match1.ChildIDs = []int{111}
	match3 := branch(12)
	match3.Text = "oxidized rust"

	s := sessionWithTree(&Story{ID: 1}, forest(match1, match3))
	s.SetGrepTerm("rust")

	require.Equal(t, []int{11, 1111, 12}, rowIDs(s.GrepRows()))
}

func TestRows_SelectsActiveProjection(t *testing.T) {
	newest := branch(111)
	newest.Text = "needle here"
	root := branch(11, newest)
	newest.CreatedAt = root.CreatedAt + 100
	s := sessionWithTree(&Story{ID: 1}, forest(root))

	require.Equal(t, []int{11, 111}, rowIDs(s.Rows()))

	s.SetSortMode(SortRecent)
	require.Equal(t, []int{111, 11}, rowIDs(s.Rows()))

	// A grep term wins over the sort mode until cleared.
	s.SetGrepTerm("needle")
	require.Equal(t, []int{111}, rowIDs(s.Rows()))

	s.SetGrepTerm("")
	require.Equal(t, []int{111, 11}, rowIDs(s.Rows()))

	s.SetSortMode(SortNested)
	require.Equal(t, []int{11, 111}, rowIDs(s.Rows()))
}
