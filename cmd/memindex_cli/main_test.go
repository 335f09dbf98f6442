package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sushant-115/memindex/core/indexing/btree"
)

func newREPLTree(t *testing.T) *btree.Tree[int] {
	t.Helper()
	tree, err := btree.New[int](2)
	require.NoError(t, err)
	return tree
}

func runLine(t *testing.T, tree *btree.Tree[int], line ...string) string {
	t.Helper()
	out, quit := execCommand(tree, line)
	require.False(t, quit)
	return out
}

func TestExecCommandInsertSearchDelete(t *testing.T) {
	tree := newREPLTree(t)

	require.Equal(t, "ok", runLine(t, tree, "insert", "5", "3", "9"))
	require.Equal(t, "true", runLine(t, tree, "search", "3"))
	require.Equal(t, "ok", runLine(t, tree, "delete", "3"))
	require.Equal(t, "false", runLine(t, tree, "search", "3"))
	require.Equal(t, "2", runLine(t, tree, "len"))
}

func TestExecCommandTraversalsAndExtrema(t *testing.T) {
	tree := newREPLTree(t)
	runLine(t, tree, "insert", "2", "1", "3")

	require.Equal(t, "1 2 3", runLine(t, tree, "inorder"))
	require.Equal(t, "1", runLine(t, tree, "min"))
	require.Equal(t, "3", runLine(t, tree, "max"))
	require.Equal(t, "1", runLine(t, tree, "height"))
	require.Contains(t, runLine(t, tree, "dot"), "graph btree {")
}

func TestExecCommandEmptyTreeExtrema(t *testing.T) {
	tree := newREPLTree(t)
	require.Equal(t, btree.ErrEmptyTree.Error(), runLine(t, tree, "min"))
	require.Equal(t, btree.ErrEmptyTree.Error(), runLine(t, tree, "max"))
}

func TestExecCommandRejectsBadInput(t *testing.T) {
	tree := newREPLTree(t)

	require.Contains(t, runLine(t, tree, "insert", "abc"), "invalid key")
	require.Contains(t, runLine(t, tree, "insert"), "usage:")
	require.Contains(t, runLine(t, tree, "frobnicate"), "unknown command")
}

func TestExecCommandExit(t *testing.T) {
	tree := newREPLTree(t)
	_, quit := execCommand(tree, []string{"exit"})
	require.True(t, quit)
	_, quit = execCommand(tree, []string{"quit"})
	require.True(t, quit)
}
