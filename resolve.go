package treefile

import (
	"fmt"
	"strings"
)

// Get resolves a slash-delimited identifier relative to the node and returns
// the addressed child, a sub-branch as *Node and anything else as an opaque
// leaf. Pending children are loaded on first touch. A failed resolution is
// not an error: it yields the configured [NotFoundFunc] result (nil by
// default).
func (n *Node) Get(id string) (any, error) {
	return n.get(id, false)
}

// Vivify behaves like [Node.Get], but creates missing trailing elements as
// empty branches instead of consulting the not-found handler.
func (n *Node) Vivify(id string) (any, error) {
	return n.get(id, true)
}

func (n *Node) get(id string, vivify bool) (any, error) {
	id = strings.TrimLeft(id, "/")
	if id == "" {
		return nil, fmt.Errorf("(get) %w", ErrMissingIdentifier)
	}

	head, rest, _ := strings.Cut(id, "/")

	child, found, err := n.step(head, vivify)
	if err != nil {
		return nil, fmt.Errorf("(get) %w", err)
	}
	if !found {
		return n.miss(head), nil
	}

	if rest == "" {
		return child, nil
	}

	branch, ok := child.(*Node)
	if !ok {
		return n.miss(head), nil
	}

	return branch.get(rest, vivify)
}

// step resolves one immediate child by name, forcing a pending slot and
// optionally autovivifying an absent one; it never consults the not-found
// handler.
func (n *Node) step(head string, vivify bool) (any, bool, error) {
	if s, ok := n.children[head]; ok {
		value, err := s.resolve()
		if err != nil {
			return nil, false, err
		}

		return value, true, nil
	}

	if vivify {
		child := newNode(n.ctx, joinLocation(n.location, head), n.readonly)
		n.children[head] = &slot{value: child}

		return child, true, nil
	}

	return nil, false, nil
}

// miss reports a failed resolution through the not-found handler.
func (n *Node) miss(id string) any {
	if n.ctx.notFound != nil {
		return n.ctx.notFound(id, n.location)
	}

	return nil
}

// Set replaces the addressed child with a value, autovivifying any missing
// intermediate branches, and returns the stored element. Mapping values
// become sub-branches, other values are stored as leaves; a *Node from
// another tree is copied by its underlying data.
func (n *Node) Set(id string, value any) (any, error) {
	if n.readonly {
		return nil, fmt.Errorf("(set) %w", ErrReadOnly)
	}

	id = strings.TrimLeft(id, "/")
	if id == "" {
		return nil, fmt.Errorf("(set) %w", ErrMissingIdentifier)
	}

	if branch, ok := value.(*Node); ok {
		data, err := branch.Data()
		if err != nil {
			return nil, fmt.Errorf("(set) %w", err)
		}
		value = data
	}

	head, rest, _ := strings.Cut(id, "/")

	if rest != "" {
		child, _, err := n.step(head, true)
		if err != nil {
			return nil, fmt.Errorf("(set) %w", err)
		}

		branch, ok := child.(*Node)
		if !ok {
			return nil, fmt.Errorf("(set) %w: %s", ErrNotBranch, joinLocation(n.location, head))
		}

		return branch.Set(rest, value)
	}

	stored := nodeFromValue(n.ctx, value, joinLocation(n.location, head), n.readonly)
	n.children[head] = &slot{value: stored}

	return stored, nil
}

// Delete removes the addressed child and returns its resolved value; the
// absence of the child is a no-op yielding nil.
func (n *Node) Delete(id string) (any, error) {
	if n.readonly {
		return nil, fmt.Errorf("(delete) %w", ErrReadOnly)
	}

	id = strings.TrimLeft(id, "/")
	if id == "" {
		return nil, fmt.Errorf("(delete) %w", ErrMissingIdentifier)
	}

	head, rest, _ := strings.Cut(id, "/")

	if rest != "" {
		child, found, err := n.step(head, false)
		if err != nil {
			return nil, fmt.Errorf("(delete) %w", err)
		}
		if !found {
			return nil, nil
		}

		branch, ok := child.(*Node)
		if !ok {
			return nil, fmt.Errorf("(delete) %w: %s", ErrNotBranch, joinLocation(n.location, head))
		}

		return branch.Delete(rest)
	}

	s, ok := n.children[head]
	if !ok {
		return nil, nil
	}

	value, err := s.resolve()
	if err != nil {
		return nil, fmt.Errorf("(delete) %w", err)
	}

	delete(n.children, head)

	return value, nil
}

// Move relocates the element at oldID to newID; it is a [Node.Delete]
// followed by a [Node.Set] of the removed value.
func (n *Node) Move(oldID, newID string) error {
	if n.readonly {
		return fmt.Errorf("(move) %w", ErrReadOnly)
	}

	value, err := n.Delete(oldID)
	if err != nil {
		return fmt.Errorf("(move) %w", err)
	}

	if _, err := n.Set(newID, value); err != nil {
		return fmt.Errorf("(move) %w", err)
	}

	return nil
}
