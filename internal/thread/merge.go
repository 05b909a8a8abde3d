package thread

// collectIDs registers every id in the forest into seen.
func collectIDs(nodes []*Comment, seen map[int]bool) {
	for _, n := range nodes {
		seen[n.ID] = true
		collectIDs(n.Children, seen)
	}
}

// pruneKnown filters a freshly loaded batch against seen. A node whose id is
// already known is dropped together with its subtree; its copy in the tree
// owns those children. Surviving nodes register their ids and get their own
// descendants filtered the same way, since overlapping child listings during
// incremental fetches can nest a duplicate under a different reply.
func pruneKnown(batch []*Comment, seen map[int]bool) []*Comment {
	var out []*Comment
	for _, n := range batch {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		n.Children = pruneKnown(n.Children, seen)
		out = append(out, n)
	}
	return out
}

// mergeTrees appends a new batch to the forest, dropping any node whose id
// already occurs anywhere in it. Order of both inputs is preserved.
func mergeTrees(old, batch []*Comment) []*Comment {
	seen := make(map[int]bool)
	collectIDs(old, seen)
	pruned := pruneKnown(batch, seen)
	if len(pruned) == 0 {
		return old
	}
	return append(old, pruned...)
}

// countNodes returns the total number of comments in the forest. Counts are
// always recomputed by a full walk after a merge; incremental tracking
// drifts when duplicates get dropped.
func countNodes(nodes []*Comment) int {
	n := len(nodes)
	for _, c := range nodes {
		n += countNodes(c.Children)
	}
	return n
}

// subtreeSize returns the number of descendants below c, excluding c itself.
func subtreeSize(c *Comment) int {
	return countNodes(c.Children)
}

// findByID returns the comment with the given id, or nil.
func findByID(nodes []*Comment, id int) *Comment {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := findByID(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// findParent returns the comment whose children contain id, or nil for
// top-level comments and unknown ids.
func findParent(nodes []*Comment, id int) *Comment {
	for _, n := range nodes {
		for _, child := range n.Children {
			if child.ID == id {
				return n
			}
		}
		if found := findParent(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// pathTo returns the chain of comments from a top-level thread down to the
// node with the given id, inclusive. Nil when the id is not in the forest.
func pathTo(nodes []*Comment, id int) []*Comment {
	for _, n := range nodes {
		if n.ID == id {
			return []*Comment{n}
		}
		if rest := pathTo(n.Children, id); rest != nil {
			return append([]*Comment{n}, rest...)
		}
	}
	return nil
}
