// Package btree implements an in-memory B-tree of configurable minimum
// degree t: every node holds between t-1 and 2t-1 sorted keys (the root
// excepted on the lower bound), every leaf sits at the same depth, and all
// operations complete in O(log_t n). The tree is single-threaded; callers
// that share a Tree across goroutines must serialize access themselves.
package btree

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

var (
	ErrEmptyTree     = errors.New("tree is empty")
	ErrInvalidDegree = errors.New("btree degree must be at least 2")
	ErrNilKeyOrder   = errors.New("keyOrder function must be provided")
)

// Order compares two keys: negative if a sorts before b, zero if they are
// equal, positive if a sorts after b.
type Order[K any] func(a, b K) int

// DefaultKeyOrder is the natural ordering for any cmp.Ordered key type.
func DefaultKeyOrder[K cmp.Ordered](a, b K) int {
	return cmp.Compare(a, b)
}

// Tree is an ordered multiset of keys backed by a B-tree of minimum degree
// `degree`. Duplicate keys are permitted.
type Tree[K any] struct {
	degree   int
	root     *node[K]
	size     int
	keyOrder Order[K]
	logger   *zap.Logger
	metrics  *treeMetrics
}

// New creates a Tree over a naturally ordered key type, with logging and
// metrics disabled.
func New[K cmp.Ordered](degree int) (*Tree[K], error) {
	return NewWith[K](degree, DefaultKeyOrder[K], nil, nil)
}

// NewWith creates a Tree with an explicit key ordering. A nil logger
// disables logging; a nil meter disables metrics.
func NewWith[K any](degree int, keyOrder Order[K], logger *zap.Logger, meter metric.Meter) (*Tree[K], error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, degree)
	}
	if keyOrder == nil {
		return nil, ErrNilKeyOrder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("")
	}
	m, err := newTreeMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create btree metrics: %w", err)
	}
	return &Tree[K]{
		degree:   degree,
		keyOrder: keyOrder,
		logger:   logger,
		metrics:  m,
	}, nil
}

// Degree returns the minimum degree t the tree was constructed with.
func (bt *Tree[K]) Degree() int {
	return bt.degree
}

// Len returns the number of keys currently stored, counting duplicates.
func (bt *Tree[K]) Len() int {
	return bt.size
}

// Height returns the number of levels in the tree; 0 when empty. Every leaf
// sits at the same depth, so the leftmost path measures all of them.
func (bt *Tree[K]) Height() int {
	h := 0
	for n := bt.root; n != nil; {
		h++
		if n.isLeaf {
			break
		}
		n = n.children[0]
	}
	return h
}

// Search reports whether key is present in the tree.
func (bt *Tree[K]) Search(key K) bool {
	for n := bt.root; n != nil; {
		idx, found := slices.BinarySearchFunc(n.keys, key, bt.keyOrder)
		if found {
			return true
		}
		if n.isLeaf {
			return false
		}
		n = n.children[idx]
	}
	return false
}

// Min returns the smallest key, or ErrEmptyTree when the tree has no root.
func (bt *Tree[K]) Min() (K, error) {
	if bt.root == nil {
		var zero K
		return zero, ErrEmptyTree
	}
	n := bt.root
	for !n.isLeaf {
		n = n.children[0]
	}
	return n.keys[0], nil
}

// Max returns the largest key, or ErrEmptyTree when the tree has no root.
func (bt *Tree[K]) Max() (K, error) {
	if bt.root == nil {
		var zero K
		return zero, ErrEmptyTree
	}
	n := bt.root
	for !n.isLeaf {
		n = n.children[len(n.children)-1]
	}
	return n.keys[len(n.keys)-1], nil
}

// Insert adds key to the tree. Duplicates are permitted; a new duplicate is
// placed immediately after any existing equal keys, so insertion order is
// stable among equals. Tree height grows by at most one per insertion, and
// only via a root split.
func (bt *Tree[K]) Insert(key K) {
	if bt.root == nil {
		bt.root = &node[K]{isLeaf: true}
	}
	// A full root is split unconditionally before the descent, so no node on
	// the path ever receives a key while full.
	if bt.root.isFull(bt.degree) {
		oldRoot := bt.root
		bt.root = &node[K]{children: []*node[K]{oldRoot}}
		bt.splitChild(bt.root, 0)
		bt.logger.Debug("split root", zap.Int("height", bt.Height()))
	}
	bt.insertNonFull(bt.root, key)
	bt.size++
	bt.metrics.inserts.Add(context.Background(), 1)
}

// insertNonFull inserts key into the subtree rooted at n, which is
// guaranteed not to be full.
func (bt *Tree[K]) insertNonFull(n *node[K], key K) {
	// Upper bound: first position strictly greater than key, so duplicates
	// land after existing equal keys.
	idx := slices.IndexFunc(n.keys, func(k K) bool { return bt.keyOrder(key, k) < 0 })
	if idx == -1 {
		idx = len(n.keys)
	}

	if n.isLeaf {
		n.keys = slices.Insert(n.keys, idx, key)
		return
	}

	if n.children[idx].isFull(bt.degree) {
		bt.splitChild(n, idx)
		// The promoted median may redirect the descent to the new sibling.
		// Equal keys also go right, keeping duplicate placement stable.
		if bt.keyOrder(key, n.keys[idx]) >= 0 {
			idx++
		}
	}
	bt.insertNonFull(n.children[idx], key)
}

// splitChild splits the full child at childIdx of parent, promoting the
// child's median key into parent at childIdx. The new right sibling takes
// the child's upper t-1 keys (and, if internal, its upper t children); the
// original child keeps the lower t-1 keys. This is the only operation that
// grows tree height, when applied at the root.
func (bt *Tree[K]) splitChild(parent *node[K], childIdx int) {
	t := bt.degree
	child := parent.children[childIdx]

	sibling := &node[K]{isLeaf: child.isLeaf}
	sibling.keys = make([]K, t-1)
	copy(sibling.keys, child.keys[t:])
	if !child.isLeaf {
		sibling.children = make([]*node[K], t)
		copy(sibling.children, child.children[t:])
	}

	median := child.keys[t-1]
	child.keys = child.keys[:t-1]
	if !child.isLeaf {
		child.children = child.children[:t]
	}

	parent.keys = slices.Insert(parent.keys, childIdx, median)
	parent.children = slices.Insert(parent.children, childIdx+1, sibling)

	bt.metrics.splits.Add(context.Background(), 1)
	bt.logger.Debug("split child",
		zap.Int("childIdx", childIdx),
		zap.Int("parentKeys", len(parent.keys)))
}

// Delete removes one instance of key from the tree. Deleting a key that is
// not present is a no-op. When key occurs more than once, the instance
// removed is the first one found on the search path.
func (bt *Tree[K]) Delete(key K) {
	if bt.root == nil {
		return
	}
	deleted := bt.deleteRecursive(bt.root, key)
	if bt.root != nil && len(bt.root.keys) == 0 && bt.root.isLeaf {
		// Last key removed; the tree is empty again.
		bt.root = nil
	}
	if deleted {
		bt.size--
		bt.metrics.deletes.Add(context.Background(), 1)
	}
}

// deleteRecursive removes key from the subtree rooted at n in a single
// top-down pass. Except for the root, n always holds at least t keys on
// entry, so removing one key from it cannot violate the minimum.
func (bt *Tree[K]) deleteRecursive(n *node[K], key K) bool {
	t := bt.degree
	idx, found := slices.BinarySearchFunc(n.keys, key, bt.keyOrder)

	if n.isLeaf {
		if !found {
			// Absent key: the descent terminates here without effect.
			return false
		}
		n.keys = slices.Delete(n.keys, idx, idx+1)
		return true
	}

	if found {
		return bt.deleteFromInternalNode(n, key, idx)
	}

	// Key is not in this node; child idx is the subtree whose range would
	// contain it. Repair an underfull child before descending so the
	// invariant "at least t keys below" holds all the way down.
	if len(n.children[idx].keys) < t {
		bt.ensureChildHasEnoughKeys(n, idx)
		// Borrowing or merging may have moved the separator; re-locate.
		idx, found = slices.BinarySearchFunc(n.keys, key, bt.keyOrder)
		if found {
			return bt.deleteFromInternalNode(n, key, idx)
		}
	}
	return bt.deleteRecursive(n.children[idx], key)
}

// deleteFromInternalNode handles the case where key sits at index idx of the
// internal node n: the key is replaced by its predecessor or successor when
// an adjacent child can spare one, otherwise the two children are merged
// around it and deletion continues in the merged node.
func (bt *Tree[K]) deleteFromInternalNode(n *node[K], key K, idx int) bool {
	t := bt.degree
	left, right := n.children[idx], n.children[idx+1]

	switch {
	case len(left.keys) >= t:
		pred := bt.findPredecessor(left)
		bt.deleteRecursive(left, pred)
		n.keys[idx] = pred
	case len(right.keys) >= t:
		succ := bt.findSuccessor(right)
		bt.deleteRecursive(right, succ)
		n.keys[idx] = succ
	default:
		// Both children hold exactly t-1 keys: merge them with key as the
		// separator, then delete key from the merged node.
		merged := bt.mergeChildrenAndKey(n, idx)
		return bt.deleteRecursive(merged, key)
	}
	return true
}

// findPredecessor returns the rightmost key of the subtree rooted at n.
func (bt *Tree[K]) findPredecessor(n *node[K]) K {
	for !n.isLeaf {
		n = n.children[len(n.children)-1]
	}
	return n.keys[len(n.keys)-1]
}

// findSuccessor returns the leftmost key of the subtree rooted at n.
func (bt *Tree[K]) findSuccessor(n *node[K]) K {
	for !n.isLeaf {
		n = n.children[0]
	}
	return n.keys[0]
}

// ensureChildHasEnoughKeys brings the child at childIdx up to at least t
// keys before the deletion descends into it: borrow from a sibling holding
// more than t-1 keys if one exists, otherwise merge with a sibling,
// preferring the right one.
func (bt *Tree[K]) ensureChildHasEnoughKeys(parent *node[K], childIdx int) {
	t := bt.degree
	if childIdx > 0 && len(parent.children[childIdx-1].keys) >= t {
		bt.borrowFromLeftSibling(parent, childIdx)
		return
	}
	if childIdx < len(parent.children)-1 && len(parent.children[childIdx+1].keys) >= t {
		bt.borrowFromRightSibling(parent, childIdx)
		return
	}
	if childIdx < len(parent.children)-1 {
		bt.mergeChildrenAndKey(parent, childIdx)
	} else {
		bt.mergeChildrenAndKey(parent, childIdx-1)
	}
}

// borrowFromLeftSibling rotates the left sibling's last key through the
// parent into the underfull child at childIdx, carrying the sibling's last
// child along when the nodes are internal.
func (bt *Tree[K]) borrowFromLeftSibling(parent *node[K], childIdx int) {
	child := parent.children[childIdx]
	left := parent.children[childIdx-1]

	child.keys = slices.Insert(child.keys, 0, parent.keys[childIdx-1])
	parent.keys[childIdx-1] = left.keys[len(left.keys)-1]
	left.keys = left.keys[:len(left.keys)-1]
	if !left.isLeaf {
		child.children = slices.Insert(child.children, 0, left.children[len(left.children)-1])
		left.children = left.children[:len(left.children)-1]
	}

	bt.metrics.borrows.Add(context.Background(), 1)
	bt.logger.Debug("borrowed from left sibling", zap.Int("childIdx", childIdx))
}

// borrowFromRightSibling rotates the right sibling's first key through the
// parent into the underfull child at childIdx.
func (bt *Tree[K]) borrowFromRightSibling(parent *node[K], childIdx int) {
	child := parent.children[childIdx]
	right := parent.children[childIdx+1]

	child.keys = append(child.keys, parent.keys[childIdx])
	parent.keys[childIdx] = right.keys[0]
	right.keys = slices.Delete(right.keys, 0, 1)
	if !right.isLeaf {
		child.children = append(child.children, right.children[0])
		right.children = slices.Delete(right.children, 0, 1)
	}

	bt.metrics.borrows.Add(context.Background(), 1)
	bt.logger.Debug("borrowed from right sibling", zap.Int("childIdx", childIdx))
}

// mergeChildrenAndKey combines child childIdx, the separator key at childIdx
// and child childIdx+1 into a single node, and returns it. A root emptied by
// the merge is replaced by the merged child, shrinking tree height by one.
func (bt *Tree[K]) mergeChildrenAndKey(parent *node[K], childIdx int) *node[K] {
	left := parent.children[childIdx]
	right := parent.children[childIdx+1]

	left.keys = append(left.keys, parent.keys[childIdx])
	left.keys = append(left.keys, right.keys...)
	if !left.isLeaf {
		left.children = append(left.children, right.children...)
	}

	parent.keys = slices.Delete(parent.keys, childIdx, childIdx+1)
	parent.children = slices.Delete(parent.children, childIdx+1, childIdx+2)

	bt.metrics.merges.Add(context.Background(), 1)
	if parent == bt.root && len(parent.keys) == 0 {
		bt.root = left
		bt.logger.Debug("root collapsed", zap.Int("height", bt.Height()))
	} else {
		bt.logger.Debug("merged children", zap.Int("childIdx", childIdx))
	}
	return left
}
