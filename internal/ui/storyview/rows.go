package storyview

import "kindling/internal/thread"

// parentIndex returns the index of the nearest row above with a smaller
// level, i.e. the parent in the nested projection. -1 when there is none.
func parentIndex(rows []thread.Row, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(rows) {
		return -1
	}
	level := rows[currentIdx].Level
	for i := currentIdx - 1; i >= 0; i-- {
		if rows[i].Level < level {
			return i
		}
	}
	return -1
}

// nextSiblingIndex returns the index of the next row at the same level
// before the projection climbs back above it. -1 when there is none.
func nextSiblingIndex(rows []thread.Row, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(rows) {
		return -1
	}
	level := rows[currentIdx].Level
	for i := currentIdx + 1; i < len(rows); i++ {
		if rows[i].Level < level {
			return -1
		}
		if rows[i].Level == level {
			return i
		}
	}
	return -1
}

// indexOf returns the row index of a comment id, or -1.
func indexOf(rows []thread.Row, id int) int {
	for i, r := range rows {
		if r.Comment.ID == id {
			return i
		}
	}
	return -1
}
