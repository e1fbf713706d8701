// Package topic models the category hierarchy used for browsing and search.
//
// A tree is built once from a server payload and is treated as immutable
// afterwards; a refresh replaces the whole tree.
package topic

import "errors"

// RootName is the name of the sentinel root node.
const RootName = "ROOT"

// ErrChildrenAttached is returned when children are attached to a node twice.
var ErrChildrenAttached = errors.New("topic: children already attached")

// Node is one category. A node with nil children is a leaf; a node with a
// non-nil, possibly empty, child list is a branch.
type Node struct {
	name     string
	children []*Node
}

// New returns a leaf named name.
func New(name string) *Node { return &Node{name: name} }

// NewRoot returns an empty sentinel root.
func NewRoot() *Node { return New(RootName) }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// SetChildren attaches children during construction. It may be called once;
// a nil slice is stored as an empty branch.
func (n *Node) SetChildren(children []*Node) error {
	if n.children != nil {
		return ErrChildrenAttached
	}
	if children == nil {
		children = []*Node{}
	}
	n.children = children
	return nil
}

func (n *Node) IsLeaf() bool { return n.children == nil }

func (n *Node) IsRoot() bool { return IsRootName(n.name) }

// IsRootName reports whether name is the root sentinel.
func IsRootName(name string) bool { return name == RootName }

// Equal compares nodes by name only; children are ignored. Callers use it
// for identity lookups ("is this the same category?"), and Find depends on it.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.name == other.name
}

// Find returns the first node, in depth-first order, that is Equal to a node
// named name. The root itself is considered.
func (n *Node) Find(name string) *Node {
	want := New(name)
	var found *Node
	walk(n, func(c *Node) bool {
		if c.Equal(want) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Len returns the number of nodes below n, n excluded.
func (n *Node) Len() int {
	count := -1
	walk(n, func(*Node) bool { count++; return true })
	return count
}

// walk visits n and its descendants in pre-order until fn returns false.
func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
