package btree

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraversalsOnEmptyTree(t *testing.T) {
	tree := newTestTree(t, 2)

	require.Empty(t, slices.Collect(tree.Inorder()))
	require.Empty(t, slices.Collect(tree.Preorder()))
	require.Empty(t, slices.Collect(tree.Postorder()))
	require.Nil(t, tree.Root())
}

// TestTraversalsAreRestartable iterates the same sequence value twice; a
// second pass must replay the full traversal from the start.
func TestTraversalsAreRestartable(t *testing.T) {
	tree := newTestTree(t, 3)
	for _, key := range scenarioInsertKeys {
		tree.Insert(key)
	}

	inorder := tree.Inorder()
	first := slices.Collect(inorder)
	second := slices.Collect(inorder)
	require.Equal(t, first, second)

	preorder := tree.Preorder()
	require.Equal(t, slices.Collect(preorder), slices.Collect(preorder))
}

// TestTraversalEarlyStop breaks out of the loop mid-sequence; the iterator
// must stop yielding instead of walking the rest of the tree.
func TestTraversalEarlyStop(t *testing.T) {
	tree := newTestTree(t, 2)
	for _, key := range scenarioInsertKeys {
		tree.Insert(key)
	}

	var got []int
	for k := range tree.Inorder() {
		got = append(got, k)
		if len(got) == 3 {
			break
		}
	}
	require.Equal(t, []int{-5, -4, -3}, got)

	got = got[:0]
	for k := range tree.Postorder() {
		got = append(got, k)
		if len(got) == 2 {
			break
		}
	}
	require.Len(t, got, 2)
}

// TestTraversalOrderRelations checks the defining properties of the three
// orders against each other on the same tree.
func TestTraversalOrderRelations(t *testing.T) {
	tree := newTestTree(t, 3)
	for _, key := range scenarioInsertKeys {
		tree.Insert(key)
	}

	inorder := slices.Collect(tree.Inorder())
	preorder := slices.Collect(tree.Preorder())
	postorder := slices.Collect(tree.Postorder())

	require.True(t, slices.IsSorted(inorder))
	require.ElementsMatch(t, inorder, preorder)
	require.ElementsMatch(t, inorder, postorder)

	// The root's keys open the preorder and close the postorder.
	rootKeys := tree.Root().Keys()
	require.Equal(t, rootKeys, preorder[:len(rootKeys)])
	require.Equal(t, rootKeys, postorder[len(postorder)-len(rootKeys):])
}

// TestNodeRefWalk rebuilds the preorder sequence through the read-only node
// views and checks the structural accessors along the way.
func TestNodeRefWalk(t *testing.T) {
	tree := newTestTree(t, 2)
	for _, key := range scenarioInsertKeys {
		tree.Insert(key)
	}

	var walked []int
	var walk func(r *NodeRef[int])
	walk = func(r *NodeRef[int]) {
		keys := r.Keys()
		walked = append(walked, keys...)
		if r.Leaf() {
			require.Zero(t, r.NumChildren())
			return
		}
		require.Equal(t, len(keys)+1, r.NumChildren())
		for i := 0; i < r.NumChildren(); i++ {
			walk(r.Child(i))
		}
	}
	walk(tree.Root())

	require.Equal(t, slices.Collect(tree.Preorder()), walked)
}

// TestNodeRefKeysIsACopy mutating the returned slice must not affect the
// tree.
func TestNodeRefKeysIsACopy(t *testing.T) {
	tree := newTestTree(t, 2)
	tree.Insert(1)
	tree.Insert(2)

	keys := tree.Root().Keys()
	keys[0] = 99

	require.Equal(t, []int{1, 2}, slices.Collect(tree.Inorder()))
}
