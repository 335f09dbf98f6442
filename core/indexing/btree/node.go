package btree

// node is an in-memory B-tree node. Leaf and internal nodes share one type;
// the isLeaf flag is the only behavioral difference, and children is empty
// for leaves. A node exclusively owns its children.
type node[K any] struct {
	keys     []K
	children []*node[K]
	isLeaf   bool
}

// isFull reports whether the node holds the maximum 2t-1 keys. A full node
// must be split before a key is driven into it.
func (n *node[K]) isFull(t int) bool {
	return len(n.keys) == 2*t-1
}
