package overflow

import (
	"fmt"

	"github.com/dshills/charlimit/internal/doctree"
)

// Stats counts the mutations made by one scan.
type Stats struct {
	Wrapped   int
	Unwrapped int
	Split     int
	Merged    int
}

// Changed reports whether the scan mutated the tree.
func (s Stats) Changed() bool {
	return s.Wrapped+s.Unwrapped+s.Split+s.Merged > 0
}

func (s Stats) String() string {
	return fmt.Sprintf("wrapped=%d unwrapped=%d split=%d merged=%d",
		s.Wrapped, s.Unwrapped, s.Split, s.Merged)
}

// Scan brings the overflow containers in line with boundary, a UTF-16
// offset into the document text, in a single document-order pass.
//
// Containers entirely before the boundary are unwrapped. A container the
// boundary falls into is unwrapped when its first leaf is simple text or
// fits the budget, and its children are then re-examined in the same pass.
// Leaves extending past the boundary are wrapped, simple text being split
// first so that only the over-budget part is covered. A leaf ending exactly
// at the boundary is never wrapped.
func Scan(tx *doctree.Tx, boundary int) (Stats, error) {
	s := scanner{tx: tx, boundary: boundary}
	for _, n := range doctree.DFS(tx.Root()) {
		if err := s.visit(n); err != nil {
			return s.stats, err
		}
	}
	return s.stats, nil
}

type scanner struct {
	tx       *doctree.Tx
	boundary int
	acc      int
	stats    Stats
}

func (s *scanner) visit(n *doctree.Node) error {
	// Earlier mutations in this pass may have removed n.
	if !n.IsAttached() {
		return nil
	}
	if n.NearestAncestor(doctree.KindOverflow) != nil {
		return nil
	}

	switch n.Kind() {
	case doctree.KindOverflow:
		return s.visitContainer(n)
	case doctree.KindText, doctree.KindLineBreak:
		return s.visitLeaf(n)
	default:
		return nil
	}
}

func (s *scanner) visitContainer(c *doctree.Node) error {
	if c.IsEmpty() {
		return s.unwrap(c)
	}

	prev := s.acc
	next := prev + c.TextSize()
	switch {
	case next <= s.boundary:
		return s.unwrap(c)
	case prev < s.boundary && s.shrinks(c, prev):
		return s.unwrap(c)
	}

	s.acc = next
	merged, err := MergeWithPrevious(s.tx, c)
	if merged {
		s.stats.Merged++
	}
	return err
}

// shrinks reports whether a container straddling the boundary should be
// dissolved so its content can be re-wrapped at finer granularity. An empty
// element as first descendant has no length and always fits.
func (s *scanner) shrinks(c *doctree.Node, prev int) bool {
	first := c.FirstDescendant()
	if first == nil {
		return true
	}
	return first.IsSimpleText() || prev+first.TextSize() <= s.boundary
}

func (s *scanner) unwrap(c *doctree.Node) error {
	if err := Unwrap(s.tx, c); err != nil {
		return err
	}
	s.stats.Unwrapped++
	return nil
}

func (s *scanner) visitLeaf(leaf *doctree.Node) error {
	before := s.acc
	s.acc += leaf.TextSize()
	if s.acc <= s.boundary {
		return nil
	}

	target := leaf
	if before < s.boundary && leaf.IsSimpleText() {
		_, after, err := SplitSimpleText(s.tx, leaf, s.boundary-before)
		if err != nil {
			return err
		}
		s.stats.Split++
		target = after
	}

	container, err := Wrap(s.tx, target)
	if err != nil {
		return err
	}
	s.stats.Wrapped++

	merged, err := MergeWithPrevious(s.tx, container)
	if merged {
		s.stats.Merged++
	}
	return err
}
