package treefile

import (
	"fmt"
	"slices"
	"strings"
)

// Representation names the on-disk shape of a branch.
type Representation string

const (
	// RepUnset leaves the on-disk shape to be inferred at write time.
	RepUnset Representation = ""

	// RepFile forces the branch to be written as a single encoded file.
	RepFile Representation = "file"

	// RepDir forces the branch to be written as a directory.
	RepDir Representation = "dir"
)

// A slot holds one child of a [Node]: either an already resolved value (a
// leaf or a *Node) or a deferred load that yields it on first access.
type slot struct {
	value any
	thunk func() (any, error)
}

// resolve forces a pending slot exactly once, replacing the thunk with its
// result. Resolved slots return their value unchanged.
func (s *slot) resolve() (any, error) {
	if s.thunk != nil {
		value, err := s.thunk()
		if err != nil {
			return nil, err
		}
		s.value = value
		s.thunk = nil
	}

	return s.value, nil
}

// A Node is one branch of a loaded tree. Its children are addressed by
// slash-delimited identifiers relative to the node; each child is either a
// sub-branch (itself a *Node) or an opaque leaf value.
type Node struct {
	ctx      *treeContext
	location string
	children map[string]*slot
	repType  Representation
	readonly bool
}

func newNode(ctx *treeContext, location string, readonly bool) *Node {
	return &Node{
		ctx:      ctx,
		location: location,
		children: make(map[string]*slot),
		readonly: readonly,
	}
}

// nodeFromValue converts a raw value into tree shape: mappings recursively
// become branches, anything else stays an opaque leaf.
func nodeFromValue(ctx *treeContext, value any, location string, readonly bool) any {
	mapping, ok := value.(map[string]any)
	if !ok {
		return value
	}

	node := newNode(ctx, location, readonly)
	for name, sub := range mapping {
		child := nodeFromValue(ctx, sub, joinLocation(location, name), readonly)
		node.children[name] = &slot{value: child}
	}

	return node
}

// Path returns the node's location relative to the tree's base directory;
// the root node's path is the empty string.
func (n *Node) Path() string {
	return n.location
}

// Basename returns the last segment of the node's location.
func (n *Node) Basename() string {
	if i := strings.LastIndex(n.location, "/"); i >= 0 {
		return n.location[i+1:]
	}

	return n.location
}

// NodeNames returns the sorted names of all children, resolved or pending.
func (n *Node) NodeNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Nodes resolves and returns every child, in sorted name order.
func (n *Node) Nodes() ([]any, error) {
	names := n.NodeNames()

	values := make([]any, 0, len(names))
	for _, name := range names {
		value, err := n.Get(name)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, nil
}

// BranchNames returns the sorted names of all children that are themselves
// branches, resolving pending children as needed.
func (n *Node) BranchNames() ([]string, error) {
	var names []string

	for _, name := range n.NodeNames() {
		value, err := n.Get(name)
		if err != nil {
			return nil, err
		}
		if _, ok := value.(*Node); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// Branches resolves and returns every child that is itself a branch, in
// sorted name order.
func (n *Node) Branches() ([]*Node, error) {
	var branches []*Node

	for _, name := range n.NodeNames() {
		value, err := n.Get(name)
		if err != nil {
			return nil, err
		}
		if branch, ok := value.(*Node); ok {
			branches = append(branches, branch)
		}
	}

	return branches, nil
}

// Data reconstructs the node's sub-tree as a plain nested mapping, forcing
// every pending child along the way. Writing relies on this to guarantee a
// fully materialized tree before any on-disk shape is touched.
func (n *Node) Data() (map[string]any, error) {
	data := make(map[string]any, len(n.children))

	for name, s := range n.children {
		value, err := s.resolve()
		if err != nil {
			return nil, fmt.Errorf("(data) %w", err)
		}

		if branch, ok := value.(*Node); ok {
			sub, err := branch.Data()
			if err != nil {
				return nil, err
			}
			data[name] = sub

			continue
		}

		data[name] = value
	}

	return data, nil
}

// Type returns the branch's explicit on-disk representation; [RepUnset]
// means the shape is inferred from disk at write time.
func (n *Node) Type() Representation {
	return n.repType
}

// SetType sets the branch's explicit on-disk representation and returns it;
// [RepUnset] clears the override. Any other value than [RepDir], [RepFile]
// or [RepUnset] fails with [ErrInvalidType].
func (n *Node) SetType(t Representation) (Representation, error) {
	switch t {
	case RepUnset, RepFile, RepDir:
		n.repType = t

		return t, nil
	default:
		return n.repType, fmt.Errorf("(type) %w: %q", ErrInvalidType, t)
	}
}

// Explode forces the branch to be written as a directory with one entry per
// child.
func (n *Node) Explode() {
	n.repType = RepDir
}

// Collapse forces the branch to be written as a single file encoding the
// branch's entire sub-tree.
func (n *Node) Collapse() {
	n.repType = RepFile
}
