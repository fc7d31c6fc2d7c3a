package overflow

import (
	"fmt"

	"github.com/dshills/charlimit/internal/doctree"
)

// Wrap puts a new overflow container in n's place and moves n into it.
func Wrap(tx *doctree.Tx, n *doctree.Node) (*doctree.Node, error) {
	if n.Parent() == nil {
		return nil, fmt.Errorf("wrap %d: %w", n.Key(), doctree.ErrDetached)
	}
	if n.IsOverflow() || n.NearestAncestor(doctree.KindOverflow) != nil {
		return nil, fmt.Errorf("wrap %d: %w", n.Key(), ErrNested)
	}

	container, err := tx.CreateOverflow()
	if err != nil {
		return nil, err
	}
	if err := tx.InsertBefore(n, container); err != nil {
		return nil, err
	}
	if err := tx.Append(container, n); err != nil {
		return nil, err
	}
	return container, nil
}

// Unwrap replaces container with its children, in order.
//
// Element points into the container or its parent are shifted to the same
// positions. If a point still ends up detached it is re-anchored to the
// container's previous text sibling, its next text sibling, or its parent.
// Unwrapping a detached container is a no-op.
func Unwrap(tx *doctree.Tx, container *doctree.Node) error {
	if !container.IsOverflow() {
		return fmt.Errorf("unwrap %d: %w", container.Key(), ErrNotOverflow)
	}
	parent := container.Parent()
	if parent == nil {
		return nil
	}
	index := container.Index()
	prev, next := container.PrevSibling(), container.NextSibling()

	children := container.Children()
	for _, c := range children {
		if err := tx.InsertBefore(container, c); err != nil {
			return err
		}
	}
	if err := tx.Remove(container); err != nil {
		return err
	}

	p := NewPreserver(tx)
	p.Unwrapped(container.Key(), parent, index, len(children))
	p.Reanchor(prev, next, parent)
	return nil
}

// SplitSimpleText splits a simple text leaf at a local UTF-16 offset. The
// two pieces stay in the leaf's position, in order, and a caret past the
// split point moves into the second piece.
func SplitSimpleText(tx *doctree.Tx, leaf *doctree.Node, offset int) (before, after *doctree.Node, err error) {
	if !leaf.IsSimpleText() {
		return nil, nil, fmt.Errorf("split %d: %w", leaf.Key(), ErrNotSimpleText)
	}
	parent, index := leaf.Parent(), leaf.Index()
	before, after, err = tx.SplitText(leaf, offset)
	if err != nil {
		return nil, nil, err
	}
	NewPreserver(tx).Split(before, after, parent, index, offset)
	return before, after, nil
}

// MergeWithPrevious moves the children of the overflow container right
// before container to the front of container and removes the emptied one.
// It reports whether a merge happened.
func MergeWithPrevious(tx *doctree.Tx, container *doctree.Node) (bool, error) {
	prev := container.PrevSibling()
	if prev == nil || !prev.IsOverflow() {
		return false, nil
	}
	parent := container.Parent()
	prevIndex := prev.Index()

	moved := prev.Children()
	if first := container.FirstChild(); first == nil {
		if err := tx.Append(container, moved...); err != nil {
			return false, err
		}
	} else {
		for _, m := range moved {
			if err := tx.InsertBefore(first, m); err != nil {
				return false, err
			}
		}
	}
	if err := tx.Remove(prev); err != nil {
		return false, err
	}

	NewPreserver(tx).Merged(prev.Key(), container, parent, prevIndex, len(moved))
	return true, nil
}

// Remove detaches n. Selection points inside it move to the end of the
// previous text sibling, the start of the next one, or n's former slot.
func Remove(tx *doctree.Tx, n *doctree.Node) error {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	index := n.Index()
	prev, next := n.PrevSibling(), n.NextSibling()

	removed := make(map[doctree.NodeKey]bool)
	for _, d := range doctree.DFS(n) {
		removed[d.Key()] = true
	}
	if err := tx.Remove(n); err != nil {
		return err
	}
	NewPreserver(tx).Removed(removed, prev, next, parent, index)
	return nil
}
