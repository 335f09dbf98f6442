package btree

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDot renders the tree in Graphviz DOT form, one rectangle per node
// labeled with its keys, suitable for `dot -Tpng`. An empty tree renders as
// an empty graph.
func (bt *Tree[K]) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph btree {")
	fmt.Fprintln(bw, "\tnode [shape=rectangle style=filled fillcolor=\"#fcf0cf\"];")
	if bt.root != nil {
		nextID := 0
		writeDotNode(bw, bt.root, &nextID)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// writeDotNode emits the node and its edges in preorder and returns the
// node's identifier. Numeric identifiers keep nodes with equal key sets
// distinct.
func writeDotNode[K any](w *bufio.Writer, n *node[K], nextID *int) int {
	id := *nextID
	*nextID++

	labels := make([]string, len(n.keys))
	for i, k := range n.keys {
		labels[i] = fmt.Sprint(k)
	}
	fmt.Fprintf(w, "\tn%d [label=%q];\n", id, strings.Join(labels, " , "))

	for _, c := range n.children {
		childID := writeDotNode(w, c, nextID)
		fmt.Fprintf(w, "\tn%d -- n%d;\n", id, childID)
	}
	return id
}
