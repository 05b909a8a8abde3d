package thread

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParentHops bounds the upward walks. HN trees are shallow; a malformed
// parent cycle must not hang the resolver.
const maxParentHops = 64

// LoadStory resolves the root story for itemID and performs the initial
// load. The whole-tree source is tried first when available; on failure the
// loader falls back to walking the item API. A nonzero scrollToID marks a
// deep-linked comment whose ancestor chain is loaded regardless of the
// depth and batch caps.
func (s *Session) LoadStory(ctx context.Context, itemID, scrollToID int) error {
	rootID, err := s.resolveRoot(ctx, itemID)
	if err != nil {
		return fmt.Errorf("resolving root of %d: %w", itemID, err)
	}

	if s.trees != nil {
		err := s.loadWholeTree(ctx, rootID)
		if err == nil {
			s.setScrollTarget(scrollToID)
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		s.log.Warn("whole-tree load failed, falling back to item walk",
			zap.Int("story", rootID), zap.Error(err))
	}

	if err := s.loadIncremental(ctx, rootID, scrollToID); err != nil {
		return err
	}
	s.setScrollTarget(scrollToID)
	return nil
}

func (s *Session) setScrollTarget(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollTarget = id
}

// resolveRoot walks parent links upward until a story-typed item is found.
// A parentless non-story resolves to the original id.
func (s *Session) resolveRoot(ctx context.Context, id int) (int, error) {
	cur := id
	for hops := 0; hops < maxParentHops; hops++ {
		it, err := s.fetcher.GetItem(ctx, cur)
		if err != nil {
			return 0, err
		}
		if it == nil {
			return 0, fmt.Errorf("item %d not found", cur)
		}
		switch {
		case it.Type == "story" || it.Type == "poll" || it.Type == "job":
			return it.ID, nil
		case it.Parent != 0:
			cur = it.Parent
		default:
			return id, nil
		}
	}
	return id, nil
}

// chainToRoot collects the id chain from a deep-linked comment up to (but
// excluding) the story: [target, parent, ..., topLevelAncestor].
func (s *Session) chainToRoot(ctx context.Context, target, rootID int) ([]int, error) {
	var chain []int
	cur := target
	for hops := 0; hops < maxParentHops && cur != 0 && cur != rootID; hops++ {
		it, err := s.fetcher.GetItem(ctx, cur)
		if err != nil {
			return nil, err
		}
		if it == nil || it.Type == "story" {
			break
		}
		chain = append(chain, cur)
		cur = it.Parent
	}
	return chain, nil
}

// loadWholeTree replaces the session state with the full tree from the
// search-index source.
func (s *Session) loadWholeTree(ctx context.Context, rootID int) error {
	node, err := s.trees.GetTree(ctx, rootID)
	if err != nil {
		return err
	}
	if node == nil || node.ID == 0 {
		return fmt.Errorf("empty tree for %d", rootID)
	}
	story, roots := storyFromTree(node)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.story = story
	s.comments = roots
	s.threadCount = len(roots)
	s.totalCount = story.DescendantCount
	s.hasMore = false
	s.noProgress = 0
	return nil
}

// loadIncremental performs the initial bounded load through the item API:
// the story itself, then the first batch of top-level threads. A deep-link
// target forces its top-level ancestor into the first batch and its id
// chain past the depth cap.
func (s *Session) loadIncremental(ctx context.Context, rootID, scrollToID int) error {
	it, err := s.fetcher.GetItem(ctx, rootID)
	if err != nil {
		return fmt.Errorf("fetching story %d: %w", rootID, err)
	}
	if it == nil {
		return fmt.Errorf("story %d not found", rootID)
	}
	story := storyFromItem(it)

	required := make(map[int]bool)
	chainTop := 0
	if scrollToID != 0 {
		chain, err := s.chainToRoot(ctx, scrollToID, rootID)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			// Deep link resolution is best effort; load without it.
			s.log.Warn("scroll target chain failed", zap.Int("target", scrollToID), zap.Error(err))
		}
		for _, id := range chain {
			required[id] = true
		}
		if len(chain) > 0 {
			chainTop = chain[len(chain)-1]
		}
	}

	first := story.ChildIDs
	consumed := len(first)
	if s.opt.BatchSize < consumed {
		first = first[:s.opt.BatchSize]
		consumed = s.opt.BatchSize
	}
	if chainTop != 0 && !containsID(first, chainTop) {
		first = append(append([]int(nil), first...), chainTop)
	}

	batch, err := s.loadBatch(ctx, first, 0, required, false)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.story = story
	s.comments = mergeTrees(nil, batch)
	s.threadCount = consumed
	s.totalCount = countNodes(s.comments)
	s.hasMore = s.totalCount < story.DescendantCount
	s.noProgress = 0
	return nil
}

// LoadMore advances pagination by one batch of top-level threads. Calls are
// debounced, rejected while another load is in flight, and refused once
// hasMore is cleared. Two consecutive calls that bring in nothing clear
// hasMore; an inconsistent descendant count must not cause a load loop.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.story == nil || !s.hasMore || s.loading || time.Since(s.lastMore) < s.opt.Debounce {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.lastMore = time.Now()
	start := s.threadCount
	end := min(start+s.opt.BatchSize, len(s.story.ChildIDs))
	ids := append([]int(nil), s.story.ChildIDs[start:end]...)
	s.mu.Unlock()

	batch, err := s.loadBatch(ctx, ids, 0, nil, false)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	before := s.totalCount
	s.comments = mergeTrees(s.comments, batch)
	s.threadCount = end
	s.totalCount = countNodes(s.comments)

	if s.totalCount <= before {
		s.noProgress++
	} else {
		s.noProgress = 0
	}
	s.hasMore = s.totalCount < s.story.DescendantCount
	if s.noProgress >= 2 {
		s.log.Info("pagination made no progress twice, stopping",
			zap.Int("story", s.story.ID),
			zap.Int("loaded", s.totalCount),
			zap.Int("descendants", s.story.DescendantCount))
		s.hasMore = false
	}
	return nil
}

// LoadReplies force-loads the unfetched children of one truncated comment
// past the depth cap and merges them into the tree.
func (s *Session) LoadReplies(ctx context.Context, commentID int) error {
	s.mu.Lock()
	node := findByID(s.comments, commentID)
	if node == nil || !node.HasMoreReplies() || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	loaded := make(map[int]bool, len(node.Children))
	for _, c := range node.Children {
		loaded[c.ID] = true
	}
	var ids []int
	for _, id := range node.ChildIDs {
		if !loaded[id] {
			ids = append(ids, id)
		}
	}
	depth := node.Level + 1
	s.mu.Unlock()

	batch, err := s.loadBatch(ctx, ids, depth, nil, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	node = findByID(s.comments, commentID)
	if node == nil {
		return nil
	}
	seen := make(map[int]bool)
	collectIDs(s.comments, seen)
	node.Children = append(node.Children, pruneKnown(batch, seen)...)
	s.totalCount = countNodes(s.comments)
	return nil
}

// loadBatch fetches the items for ids at one depth and recurses into their
// children, all siblings concurrently, awaiting the whole level before
// returning. Recursion stops past the depth cap unless forced or the batch
// carries a required id. Dead, deleted and failed items are skipped; only
// cancellation propagates as an error.
func (s *Session) loadBatch(ctx context.Context, ids []int, depth int, required map[int]bool, force bool) ([]*Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > s.opt.MaxDepth && !force && !anyRequired(ids, required) {
		return nil, nil
	}

	items, err := s.fetcher.BatchGetItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	slots := make([]*Comment, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		if it == nil || it.Dead || it.Deleted {
			continue
		}
		i, it := i, it
		g.Go(func() error {
			c := commentFromItem(it, depth)
			kids, err := s.loadBatch(gctx, it.Kids(), depth+1, required, force)
			if err != nil {
				return err
			}
			c.Children = kids
			slots[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Comment, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func anyRequired(ids []int, required map[int]bool) bool {
	if len(required) == 0 {
		return false
	}
	for _, id := range ids {
		if required[id] {
			return true
		}
	}
	return false
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
