package storyview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kindling/internal/thread"
)

// navRows builds a fixture shaped like
//
//	10 (level 0)
//	  11 (level 1)
//	    12 (level 2)
//	  13 (level 1)
//	20 (level 0)
func navRows() []thread.Row {
	mk := func(id, level int) thread.Row {
		return thread.Row{Comment: &thread.Comment{ID: id}, Level: level}
	}
	return []thread.Row{
		mk(10, 0),
		mk(11, 1),
		mk(12, 2),
		mk(13, 1),
		mk(20, 0),
	}
}

func TestParentIndex(t *testing.T) {
	rows := navRows()

	require.Equal(t, 1, parentIndex(rows, 2), "12's parent is 11")
	require.Equal(t, 0, parentIndex(rows, 3), "13's parent is 10")
	require.Equal(t, -1, parentIndex(rows, 0), "top level has no parent")
	require.Equal(t, -1, parentIndex(rows, 4), "second top level has no parent")
	require.Equal(t, -1, parentIndex(rows, 99), "out of range")
}

func TestNextSiblingIndex(t *testing.T) {
	rows := navRows()

	require.Equal(t, 3, nextSiblingIndex(rows, 1), "11's next sibling is 13")
	require.Equal(t, 4, nextSiblingIndex(rows, 0), "10's next sibling is 20")
	require.Equal(t, -1, nextSiblingIndex(rows, 2), "12 has no later sibling")
	require.Equal(t, -1, nextSiblingIndex(rows, 3), "13 is the last reply under 10")
	require.Equal(t, -1, nextSiblingIndex(rows, 4), "20 is the last row")
}

func TestIndexOf(t *testing.T) {
	rows := navRows()

	require.Equal(t, 2, indexOf(rows, 12))
	require.Equal(t, 4, indexOf(rows, 20))
	require.Equal(t, -1, indexOf(rows, 7777))
}
