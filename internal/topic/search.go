package topic

import (
	"strings"

	"golang.org/x/text/cases"
)

// Flatten returns every node of the tree in depth-first pre-order. The ROOT
// sentinel is skipped; if root is not a sentinel it is included.
func Flatten(root *Node) []*Node {
	var out []*Node
	walk(root, func(n *Node) bool {
		if n == root && n.IsRoot() {
			return true
		}
		out = append(out, n)
		return true
	})
	return out
}

// FlattenSearch returns, in Flatten order, the nodes whose name contains query
// as a case-insensitive substring. An empty query returns Flatten(root).
func FlattenSearch(root *Node, query string) []*Node {
	all := Flatten(root)
	if query == "" {
		return all
	}
	fold := cases.Fold()
	q := fold.String(query)
	out := make([]*Node, 0, len(all))
	for _, n := range all {
		if strings.Contains(fold.String(n.name), q) {
			out = append(out, n)
		}
	}
	return out
}

// Names returns the names of nodes, in order.
func Names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.name
	}
	return out
}
