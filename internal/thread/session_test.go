package thread

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"kindling/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoadMore_StopsAfterTwoEmptyRounds(t *testing.T) {
	// The story claims ten descendants but only three children exist, so
	// pagination can never satisfy the count.
	f := newFakeFetcher(
		storyItem(1, 10, 11, 12, 13),
		comment(11, 1), comment(12, 1), comment(13, 1),
	)
	s := newTestSession(f, nil)
	ctx := context.Background()

	require.NoError(t, s.LoadStory(ctx, 1, 0))
	require.Equal(t, 3, s.TotalCount())
	require.True(t, s.HasMore())
	fetched := f.batches()

	require.NoError(t, s.LoadMore(ctx))
	require.True(t, s.HasMore())

	require.NoError(t, s.LoadMore(ctx))
	require.False(t, s.HasMore())

	// Exhausted sessions refuse further rounds outright.
	require.NoError(t, s.LoadMore(ctx))
	require.Equal(t, fetched, f.batches())
	require.Equal(t, 3, s.TotalCount())
}

func TestLoadMore_ProgressResetsTheStall(t *testing.T) {
	kids := []int{11, 12, 13, 14, 15, 16}
	items := []*api.Item{storyItem(1, 20, kids...)}
	for _, id := range kids {
		items = append(items, comment(id, 1))
	}
	s := newTestSession(newFakeFetcher(items...), nil)
	ctx := context.Background()

	require.NoError(t, s.LoadStory(ctx, 1, 0))
	require.NoError(t, s.LoadMore(ctx)) // brings in 16, resets the stall
	require.Equal(t, 6, s.TotalCount())
	require.True(t, s.HasMore())

	require.NoError(t, s.LoadMore(ctx)) // empty round one
	require.True(t, s.HasMore())
	require.NoError(t, s.LoadMore(ctx)) // empty round two
	require.False(t, s.HasMore())
}

func TestLoadMore_DebouncedWithinWindow(t *testing.T) {
	kids := []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22}
	items := []*api.Item{storyItem(1, 12, kids...)}
	for _, id := range kids {
		items = append(items, comment(id, 1))
	}
	f := newFakeFetcher(items...)
	s := NewSession(f, nil, Options{Debounce: time.Hour}, nil)
	ctx := context.Background()

	require.NoError(t, s.LoadStory(ctx, 1, 0))
	require.NoError(t, s.LoadMore(ctx))
	require.Equal(t, 10, s.ThreadCount())
	fetched := f.batches()

	// Immediately asking again lands inside the debounce window.
	require.NoError(t, s.LoadMore(ctx))
	require.Equal(t, 10, s.ThreadCount())
	require.Equal(t, fetched, f.batches())
}

func TestLoadMore_NoopBeforeFirstLoad(t *testing.T) {
	f := newFakeFetcher()
	s := newTestSession(f, nil)

	require.NoError(t, s.LoadMore(context.Background()))
	require.Zero(t, f.batches())
}

func TestLoadReplies_ForcesLoadPastDepthCap(t *testing.T) {
	f := chainFixture(10)
	s := newTestSession(f, nil)
	ctx := context.Background()

	require.NoError(t, s.LoadStory(ctx, 1, 0))
	require.Equal(t, 6, s.TotalCount())

	require.NoError(t, s.LoadReplies(ctx, 15))

	require.Equal(t, 10, s.TotalCount())
	deep := findByID(s.Rows()[0].Comment.Children, 19)
	require.NotNil(t, deep)
	require.Equal(t, 9, deep.Level)
	require.False(t, findByID(s.Rows()[0].Comment.Children, 15).HasMoreReplies())
}

func TestLoadReplies_NoopWhenFullyLoaded(t *testing.T) {
	f := newFakeFetcher(
		storyItem(1, 2, 11),
		comment(11, 1, 111),
		comment(111, 11),
	)
	s := newTestSession(f, nil)
	ctx := context.Background()

	require.NoError(t, s.LoadStory(ctx, 1, 0))
	fetched := f.batches()

	require.NoError(t, s.LoadReplies(ctx, 11))
	require.NoError(t, s.LoadReplies(ctx, 999))
	require.Equal(t, fetched, f.batches())
}

func TestCollapseThread_CollapsesTopAncestor(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111, branch(1111))),
		branch(12),
	))

	require.Equal(t, 11, s.CollapseThread(1111))
	require.True(t, s.IsCollapsed(11))
	require.False(t, s.IsCollapsed(1111))
	require.Equal(t, []int{11, 12}, rowIDs(s.NestedRows()))

	require.Zero(t, s.CollapseThread(999))
}

func TestExpandThread_ClearsWholeSubtree(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111, branch(1111))),
	))
	s.SetCollapsed(11, true)
	s.SetCollapsed(111, true)
	s.SetCollapsed(1111, true)

	s.ExpandThread(11)

	require.False(t, s.IsCollapsed(11))
	require.False(t, s.IsCollapsed(111))
	require.False(t, s.IsCollapsed(1111))
	require.Equal(t, []int{11, 111, 1111}, rowIDs(s.NestedRows()))
}

func TestToggleCollapsed_Flips(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(branch(11)))

	s.ToggleCollapsed(11)
	require.True(t, s.IsCollapsed(11))
	s.ToggleCollapsed(11)
	require.False(t, s.IsCollapsed(11))
}

func TestSetAllCollapsed_FoldsTopLevelThreads(t *testing.T) {
	s := sessionWithTree(&Story{ID: 1}, forest(
		branch(11, branch(111)),
		branch(12),
	))

	s.SetAllCollapsed(true)
	require.Equal(t, []int{11, 12}, rowIDs(s.NestedRows()))
	require.False(t, s.IsCollapsed(111))

	s.SetAllCollapsed(false)
	require.Equal(t, []int{11, 111, 12}, rowIDs(s.NestedRows()))
}

func TestOptions_Defaults(t *testing.T) {
	opt := Options{}
	opt.setDefaults()
	require.Equal(t, 5, opt.BatchSize)
	require.Equal(t, 5, opt.MaxDepth)
	require.Equal(t, time.Second, opt.Debounce)

	opt = Options{BatchSize: 8, MaxDepth: 3, Debounce: -1}
	opt.setDefaults()
	require.Equal(t, 8, opt.BatchSize)
	require.Equal(t, 3, opt.MaxDepth)
	require.Equal(t, time.Duration(-1), opt.Debounce)
}
