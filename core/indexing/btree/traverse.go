package btree

import (
	"iter"
	"slices"
)

// Inorder returns a lazy, restartable sequence of all keys in ascending
// order: within each node, every key is preceded by its left child's subtree
// and followed by the next child's subtree.
func (bt *Tree[K]) Inorder() iter.Seq[K] {
	return func(yield func(K) bool) {
		if bt.root != nil {
			bt.root.inorder(yield)
		}
	}
}

// Preorder returns the keys with each node's own keys emitted before any of
// its children, children visited left to right.
func (bt *Tree[K]) Preorder() iter.Seq[K] {
	return func(yield func(K) bool) {
		if bt.root != nil {
			bt.root.preorder(yield)
		}
	}
}

// Postorder returns the keys with every child's sequence emitted left to
// right before the node's own keys.
func (bt *Tree[K]) Postorder() iter.Seq[K] {
	return func(yield func(K) bool) {
		if bt.root != nil {
			bt.root.postorder(yield)
		}
	}
}

func (n *node[K]) inorder(yield func(K) bool) bool {
	for i, k := range n.keys {
		if !n.isLeaf && !n.children[i].inorder(yield) {
			return false
		}
		if !yield(k) {
			return false
		}
	}
	// The last child has no key after it.
	if !n.isLeaf {
		return n.children[len(n.children)-1].inorder(yield)
	}
	return true
}

func (n *node[K]) preorder(yield func(K) bool) bool {
	for _, k := range n.keys {
		if !yield(k) {
			return false
		}
	}
	for _, c := range n.children {
		if !c.preorder(yield) {
			return false
		}
	}
	return true
}

func (n *node[K]) postorder(yield func(K) bool) bool {
	for _, c := range n.children {
		if !c.postorder(yield) {
			return false
		}
	}
	for _, k := range n.keys {
		if !yield(k) {
			return false
		}
	}
	return true
}

// NodeRef is a read-only view of a node, exposed so external renderers can
// walk the structure without being able to mutate it.
type NodeRef[K any] struct {
	n *node[K]
}

// Root returns a view of the root node, or nil when the tree is empty.
func (bt *Tree[K]) Root() *NodeRef[K] {
	if bt.root == nil {
		return nil
	}
	return &NodeRef[K]{n: bt.root}
}

// Keys returns a copy of the node's keys in ascending order.
func (r *NodeRef[K]) Keys() []K {
	return slices.Clone(r.n.keys)
}

// Leaf reports whether the node has no children.
func (r *NodeRef[K]) Leaf() bool {
	return r.n.isLeaf
}

// NumChildren returns the number of children; always Keys()+1 for internal
// nodes, 0 for leaves.
func (r *NodeRef[K]) NumChildren() int {
	return len(r.n.children)
}

// Child returns a view of the i-th child.
func (r *NodeRef[K]) Child(i int) *NodeRef[K] {
	return &NodeRef[K]{n: r.n.children[i]}
}
