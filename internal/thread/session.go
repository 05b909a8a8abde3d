package thread

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"kindling/internal/api"
)

// SortMode selects the projection over the loaded tree.
type SortMode int

const (
	SortNested SortMode = iota
	SortRecent
)

// Fetcher is the item-lookup boundary of the loader, satisfied by
// api.Client. BatchGetItems returns one entry per requested id, in input
// order, with nil standing in for items that could not be fetched; it
// fails only on context cancellation.
type Fetcher interface {
	GetItem(ctx context.Context, id int) (*api.Item, error)
	BatchGetItems(ctx context.Context, ids []int) ([]*api.Item, error)
}

// TreeSource fetches a whole nested comment tree in one call, satisfied by
// api.Client's search-index endpoint.
type TreeSource interface {
	GetTree(ctx context.Context, id int) (*api.TreeItem, error)
}

// Options tune loading. Zero values mean defaults.
type Options struct {
	BatchSize int           // top-level threads per load
	MaxDepth  int           // reply depth cap
	Debounce  time.Duration // minimum gap between LoadMore calls; negative disables
}

func (o *Options) setDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 5
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = 5
	}
	if o.Debounce == 0 {
		o.Debounce = time.Second
	}
}

// Session owns the load state for one viewed story: the merged comment
// tree, pagination progress, collapse state and the active projection. A
// fresh Session is created when the viewed story changes and discarded on
// navigation away; nothing here is persisted.
//
// Loads run in background goroutines while the UI reads projections, so all
// state is guarded by one mutex. Network calls never hold it.
type Session struct {
	fetcher Fetcher
	trees   TreeSource // optional whole-tree source, tried first
	opt     Options
	log     *zap.Logger

	mu           sync.Mutex
	story        *Story
	comments     []*Comment
	threadCount  int
	totalCount   int
	hasMore      bool
	noProgress   int
	collapsed    map[int]bool
	sortMode     SortMode
	grepTerm     string
	scrollTarget int
	loading      bool
	lastMore     time.Time
}

// NewSession creates a session. trees may be nil to always use the item
// walk; log may be nil.
func NewSession(f Fetcher, trees TreeSource, opt Options, log *zap.Logger) *Session {
	opt.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		fetcher:   f,
		trees:     trees,
		opt:       opt,
		log:       log,
		collapsed: make(map[int]bool),
	}
}

// Story returns the loaded story, or nil before the first successful load.
func (s *Session) Story() *Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.story
}

// HasMore reports whether another LoadMore can bring in new comments.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// TotalCount is the number of comments in the merged tree.
func (s *Session) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCount
}

// ThreadCount is the number of top-level thread ids consumed so far.
func (s *Session) ThreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadCount
}

// Loading reports whether a load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ScrollTarget returns the deep-linked comment id, or 0.
func (s *Session) ScrollTarget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTarget
}

// SortMode returns the active sort mode.
func (s *Session) SortMode() SortMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortMode
}

// SetSortMode switches between the nested and recent projections.
func (s *Session) SetSortMode(m SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortMode = m
}

// GrepTerm returns the active filter term, or "".
func (s *Session) GrepTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grepTerm
}

// SetGrepTerm filters the projection to comments matching term. An empty
// term restores the sorted projections.
func (s *Session) SetGrepTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grepTerm = term
}

// IsCollapsed reports the collapse state of one comment.
func (s *Session) IsCollapsed(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed[id]
}

// SetCollapsed collapses or expands a single comment.
func (s *Session) SetCollapsed(id int, collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if collapsed {
		s.collapsed[id] = true
	} else {
		delete(s.collapsed, id)
	}
}

// ToggleCollapsed flips the collapse state of a single comment.
func (s *Session) ToggleCollapsed(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collapsed[id] {
		delete(s.collapsed, id)
	} else {
		s.collapsed[id] = true
	}
}

// CollapseThread collapses the whole thread containing id, i.e. its
// top-level ancestor. Returns the ancestor id so the cursor can follow,
// or 0 when the id is not in the tree.
func (s *Session) CollapseThread(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := pathTo(s.comments, id)
	if len(path) == 0 {
		return 0
	}
	top := path[0]
	s.collapsed[top.ID] = true
	return top.ID
}

// ExpandThread expands the comment and every descendant under it.
func (s *Session) ExpandThread(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := findByID(s.comments, id)
	if node == nil {
		return
	}
	var expand func(c *Comment)
	expand = func(c *Comment) {
		delete(s.collapsed, c.ID)
		for _, child := range c.Children {
			expand(child)
		}
	}
	expand(node)
}

// SetAllCollapsed folds or unfolds every top-level thread.
func (s *Session) SetAllCollapsed(collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if collapsed {
			s.collapsed[c.ID] = true
		} else {
			delete(s.collapsed, c.ID)
		}
	}
}
