package thread

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// branch builds a comment whose ChildIDs mirror its attached children.
func branch(id int, children ...*Comment) *Comment {
	c := &Comment{
		ID:        id,
		Author:    fmt.Sprintf("user%d", id),
		Text:      fmt.Sprintf("comment %d", id),
		CreatedAt: int64(1000 + id),
		Children:  children,
	}
	for _, child := range children {
		c.ChildIDs = append(c.ChildIDs, child.ID)
	}
	return c
}

// forest finalizes hand-built trees by assigning levels.
func forest(roots ...*Comment) []*Comment {
	var setLevels func(nodes []*Comment, level int)
	setLevels = func(nodes []*Comment, level int) {
		for _, n := range nodes {
			n.Level = level
			setLevels(n.Children, level+1)
		}
	}
	setLevels(roots, 0)
	return roots
}

func forestIDs(nodes []*Comment) []int {
	var ids []int
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestMergeTrees_DropsDuplicateTopLevel(t *testing.T) {
	old := forest(branch(11), branch(12))
	batch := forest(branch(12), branch(13))

	merged := mergeTrees(old, batch)

	require.Equal(t, []int{11, 12, 13}, forestIDs(merged))
	require.Equal(t, 3, countNodes(merged))
}

func TestMergeTrees_DropsDuplicateNestedInExistingTree(t *testing.T) {
	old := forest(branch(11, branch(12)))
	batch := forest(branch(12), branch(13))

	merged := mergeTrees(old, batch)

	require.Equal(t, []int{11, 13}, forestIDs(merged))
	// The nested copy keeps its place.
	require.NotNil(t, findByID(merged, 12))
	require.Equal(t, 3, countNodes(merged))
}

func TestMergeTrees_FiltersDuplicateInsideNewSubtree(t *testing.T) {
	old := forest(branch(12))
	batch := forest(branch(13, branch(12, branch(121))))

	merged := mergeTrees(old, batch)

	// 13 survives but its duplicate child goes, subtree and all. The
	// existing copy of 12 owns whatever hangs below it.
	require.Equal(t, []int{12, 13}, forestIDs(merged))
	require.Empty(t, findByID(merged, 13).Children)
	require.Nil(t, findByID(merged, 121))
	require.Equal(t, 2, countNodes(merged))
}

func TestMergeTrees_ReMergeChangesNothing(t *testing.T) {
	base := mergeTrees(nil, forest(branch(11, branch(111)), branch(12)))
	require.Equal(t, 3, countNodes(base))

	again := mergeTrees(base, forest(branch(11, branch(111)), branch(12)))

	want := forest(branch(11, branch(111)), branch(12))
	require.Empty(t, cmp.Diff(want, again))
	require.Equal(t, 3, countNodes(again))
}

func TestMergeTrees_EmptyBatchKeepsForest(t *testing.T) {
	old := forest(branch(11), branch(12))

	require.Equal(t, []int{11, 12}, forestIDs(mergeTrees(old, nil)))
	require.Equal(t, []int{11, 12}, forestIDs(mergeTrees(nil, old)))
	require.Empty(t, mergeTrees(nil, nil))
}

func TestCountNodes_WalksWholeForest(t *testing.T) {
	f := forest(
		branch(1, branch(2, branch(3)), branch(4)),
		branch(5),
	)
	require.Equal(t, 5, countNodes(f))
	require.Equal(t, 3, subtreeSize(f[0]))
	require.Equal(t, 0, subtreeSize(f[1]))
}

func TestPathTo_ReturnsChainFromTopLevel(t *testing.T) {
	f := forest(branch(1, branch(2, branch(3))), branch(4))

	path := pathTo(f, 3)
	require.Equal(t, []int{1, 2, 3}, forestIDs(path))

	require.Equal(t, []int{4}, forestIDs(pathTo(f, 4)))
	require.Nil(t, pathTo(f, 99))
}

func TestFindParent_SkipsTopLevel(t *testing.T) {
	f := forest(branch(1, branch(2, branch(3))))

	require.Equal(t, 2, findParent(f, 3).ID)
	require.Equal(t, 1, findParent(f, 2).ID)
	require.Nil(t, findParent(f, 1))
	require.Nil(t, findParent(f, 42))
}
