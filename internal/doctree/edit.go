package doctree

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/dshills/charlimit/internal/measure"
)

// InsertText inserts text at the selection, replacing a non-collapsed
// selection first, and leaves a caret after the inserted text.
func (tx *Tx) InsertText(text string) error {
	if err := tx.check(); err != nil {
		return err
	}
	sel := tx.st.sel
	if sel == nil {
		return fmt.Errorf("insert text: %w", ErrInvalidSelection)
	}
	if !sel.IsCollapsed() {
		tx.deleteRange(sel)
		sel = tx.st.sel
	}
	if text == "" {
		return nil
	}

	p := sel.Anchor
	n := tx.st.nodes[p.Key]
	if !tx.ValidPoint(p) {
		return fmt.Errorf("insert text at %v: %w", p, ErrInvalidSelection)
	}

	switch p.Type {
	case PointText:
		cut := measure.ByteIndex(n.text, p.Offset)
		n.text = n.text[:cut] + text + n.text[cut:]
		tx.MarkDirty(n)
		tx.st.sel = Caret(TextPoint(n, p.Offset+measure.UTF16(text)))
	case PointElement:
		leaf := tx.CreateText(text)
		tx.insertAt(n, p.Offset, leaf)
		tx.st.sel = Caret(TextPoint(leaf, leaf.TextSize()))
	}
	return nil
}

// DeleteCharacter deletes the selected range or, for a caret, the grapheme
// cluster before (backward) or after it. At the edge of a text leaf the
// deletion continues into the adjacent leaf in document order; line breaks
// are removed whole. Text leaves left empty are removed and the caret moves
// to a neighbouring position. Elements are never removed here, even when
// they end up empty.
//
// It reports whether anything was deleted.
func (tx *Tx) DeleteCharacter(backward bool) bool {
	if tx.closed {
		return false
	}
	sel := tx.st.sel
	if sel == nil {
		return false
	}
	if !sel.IsCollapsed() {
		return tx.deleteRange(sel)
	}

	leaf, offset, ok := tx.caretLeaf(sel.Anchor, backward)
	if !ok {
		return false
	}
	if leaf.kind == KindLineBreak {
		tx.reanchorFrom(leaf, backward)
		tx.detach(leaf)
		return true
	}

	var start, end int
	if backward {
		prefix := measure.SliceUnits(leaf.text, 0, offset)
		start = offset - measure.UTF16(lastCluster(prefix))
		end = offset
	} else {
		suffix := measure.SliceUnits(leaf.text, offset, leaf.TextSize())
		start = offset
		end = offset + measure.UTF16(firstCluster(suffix))
	}
	if start == end {
		return false
	}

	leaf.text = measure.SliceUnits(leaf.text, 0, start) + measure.SliceUnits(leaf.text, end, leaf.TextSize())
	tx.MarkDirty(leaf)
	tx.st.sel = Caret(TextPoint(leaf, start))
	if leaf.text == "" {
		tx.removeEmptyText(leaf)
	}
	return true
}

// caretLeaf finds the leaf a caret deletion acts on and the caret offset
// within it. For a backward deletion at the start of a leaf, that is the end
// of the previous leaf; forward at the end, the start of the next one.
func (tx *Tx) caretLeaf(p Point, backward bool) (*Node, int, bool) {
	n := tx.st.nodes[p.Key]
	if n == nil || !tx.ValidPoint(p) {
		return nil, 0, false
	}

	var anchor *Node
	switch p.Type {
	case PointText:
		if backward && p.Offset > 0 {
			return n, p.Offset, true
		}
		if !backward && p.Offset < n.TextSize() {
			return n, p.Offset, true
		}
		anchor = n
	case PointElement:
		if backward && p.Offset > 0 {
			anchor = lastLeafOrSelf(n.children[p.Offset-1])
			if anchor.IsLeaf() {
				return tx.edgeOf(anchor, true)
			}
		} else if !backward && p.Offset < len(n.children) {
			anchor = firstLeafOrSelf(n.children[p.Offset])
			if anchor.IsLeaf() {
				return tx.edgeOf(anchor, false)
			}
		} else {
			anchor = n
		}
	}

	leaves := Leaves(tx.st.root)
	i := indexOf(leaves, anchor)
	if i < 0 {
		i = tx.leafIndexNear(leaves, anchor, backward)
	} else if backward {
		i--
	} else {
		i++
	}
	if i < 0 || i >= len(leaves) {
		return nil, 0, false
	}
	return tx.edgeOf(leaves[i], backward)
}

// edgeOf returns leaf with the caret at its end (backward) or start.
func (tx *Tx) edgeOf(leaf *Node, backward bool) (*Node, int, bool) {
	if leaf.kind == KindLineBreak {
		return leaf, 0, true
	}
	if backward {
		if leaf.TextSize() == 0 {
			return nil, 0, false
		}
		return leaf, leaf.TextSize(), true
	}
	if leaf.TextSize() == 0 {
		return nil, 0, false
	}
	return leaf, 0, true
}

// leafIndexNear finds the leaf preceding (backward) or following a node that
// is not itself a leaf.
func (tx *Tx) leafIndexNear(leaves []*Node, n *Node, backward bool) int {
	order := DFS(tx.st.root)
	pos := indexOf(order, n)
	if backward {
		// The last leaf before n in document order.
		best := -1
		for i, l := range leaves {
			if indexOf(order, l) < pos {
				best = i
			}
		}
		return best
	}
	// The first leaf after n and all of its descendants.
	end := pos + len(DFS(n))
	for i, l := range leaves {
		if indexOf(order, l) >= end {
			return i
		}
	}
	return len(leaves)
}

// deleteRange removes the text between the selection points, which must be
// text points, and collapses the selection to the start.
func (tx *Tx) deleteRange(sel *Selection) bool {
	start, end := sel.Anchor, sel.Focus
	if start.Type != PointText || end.Type != PointText ||
		!tx.ValidPoint(start) || !tx.ValidPoint(end) {
		tx.st.sel = Caret(sel.Focus)
		return false
	}

	leaves := Leaves(tx.st.root)
	si := indexOf(leaves, tx.st.nodes[start.Key])
	ei := indexOf(leaves, tx.st.nodes[end.Key])
	if si > ei || (si == ei && start.Offset > end.Offset) {
		start, end = end, start
		si, ei = ei, si
	}

	first := leaves[si]
	last := leaves[ei]
	if first == last {
		first.text = measure.SliceUnits(first.text, 0, start.Offset) +
			measure.SliceUnits(first.text, end.Offset, first.TextSize())
		tx.MarkDirty(first)
	} else {
		first.text = measure.SliceUnits(first.text, 0, start.Offset)
		last.text = measure.SliceUnits(last.text, end.Offset, last.TextSize())
		tx.MarkDirty(first)
		tx.MarkDirty(last)
		for _, l := range leaves[si+1 : ei] {
			tx.detach(l)
		}
		if last.text == "" {
			tx.detach(last)
		}
	}

	tx.st.sel = Caret(TextPoint(first, start.Offset))
	if first.text == "" {
		tx.removeEmptyText(first)
	}
	return true
}

// removeEmptyText detaches an empty text leaf, moving a caret inside it to
// the end of the previous text sibling, the start of the next one, or the
// leaf's slot in its parent.
func (tx *Tx) removeEmptyText(n *Node) {
	tx.reanchorFrom(n, true)
	tx.detach(n)
}

// reanchorFrom moves selection points on n, or on n's slot in its parent,
// to a neighbouring position that survives n's removal.
func (tx *Tx) reanchorFrom(n *Node, preferPrev bool) {
	sel := tx.st.sel
	if sel == nil || n.parent == nil {
		return
	}
	parent := n.parent
	idx := n.Index()

	target := ElementPoint(parent, idx)
	prev, next := n.PrevSibling(), n.NextSibling()
	switch {
	case preferPrev && prev != nil && prev.kind == KindText:
		target = TextPoint(prev, prev.TextSize())
	case next != nil && next.kind == KindText:
		target = TextPoint(next, 0)
	case prev != nil && prev.kind == KindText:
		target = TextPoint(prev, prev.TextSize())
	}

	move := func(p Point) Point {
		if p.Key == n.key {
			return target
		}
		if p.Key == parent.key && p.Type == PointElement && p.Offset > idx {
			return ElementPoint(parent, p.Offset-1)
		}
		return p
	}
	tx.st.sel = &Selection{Anchor: move(sel.Anchor), Focus: move(sel.Focus)}
}

func lastLeafOrSelf(n *Node) *Node {
	if d := n.LastDescendant(); d != nil {
		return d
	}
	return n
}

func firstLeafOrSelf(n *Node) *Node {
	if d := n.FirstDescendant(); d != nil {
		return d
	}
	return n
}

func indexOf(nodes []*Node, n *Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return -1
}

func firstCluster(s string) string {
	cluster, _, _, _ := uniseg.StepString(s, -1)
	return cluster
}

func lastCluster(s string) string {
	var last string
	state := -1
	for len(s) > 0 {
		last, s, _, state = uniseg.StepString(s, state)
	}
	return last
}
