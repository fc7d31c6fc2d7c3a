package overflow

import "github.com/dshills/charlimit/internal/doctree"

// Preserver translates the selection across structural mutations.
type Preserver struct {
	tx *doctree.Tx
}

// NewPreserver returns a preserver bound to tx.
func NewPreserver(tx *doctree.Tx) Preserver {
	return Preserver{tx: tx}
}

func (p Preserver) translate(fn func(doctree.Point) doctree.Point) {
	sel := p.tx.Selection()
	if sel == nil {
		return
	}
	next := &doctree.Selection{Anchor: fn(sel.Anchor), Focus: fn(sel.Focus)}
	if *next == *sel {
		return
	}
	// An invalid result keeps the old selection for Reanchor to repair.
	_ = p.tx.SetSelection(next)
}

// Split moves text points past offset k in before to the same logical
// position in after. after was inserted at index+1 in parent, so element
// points in parent beyond before shift right by one.
func (p Preserver) Split(before, after, parent *doctree.Node, index, k int) {
	p.translate(func(pt doctree.Point) doctree.Point {
		switch {
		case pt.Key == before.Key() && pt.Type == doctree.PointText && pt.Offset > k:
			return doctree.TextPoint(after, pt.Offset-k)
		case pt.Key == parent.Key() && pt.Type == doctree.PointElement && pt.Offset > index:
			return doctree.ElementPoint(parent, pt.Offset+1)
		}
		return pt
	})
}

// Unwrapped re-expresses points after container's count children were
// lifted into parent at index.
func (p Preserver) Unwrapped(container doctree.NodeKey, parent *doctree.Node, index, count int) {
	p.translate(func(pt doctree.Point) doctree.Point {
		if pt.Type != doctree.PointElement {
			return pt
		}
		switch {
		case pt.Key == container:
			return doctree.ElementPoint(parent, index+pt.Offset)
		case pt.Key == parent.Key() && pt.Offset > index:
			return doctree.ElementPoint(parent, pt.Offset+count-1)
		}
		return pt
	})
}

// Merged re-expresses points after the moved children of prev, which sat at
// prevIndex in parent, were spliced to the front of into.
func (p Preserver) Merged(prev doctree.NodeKey, into, parent *doctree.Node, prevIndex, moved int) {
	p.translate(func(pt doctree.Point) doctree.Point {
		if pt.Type != doctree.PointElement {
			return pt
		}
		switch {
		case pt.Key == prev:
			return doctree.ElementPoint(into, pt.Offset)
		case pt.Key == into.Key():
			return doctree.ElementPoint(into, pt.Offset+moved)
		case pt.Key == parent.Key() && pt.Offset > prevIndex:
			return doctree.ElementPoint(parent, pt.Offset-1)
		}
		return pt
	})
}

// Removed re-expresses points after the subtree whose keys are in removed
// was detached from index in parent. Points inside it move to the end of
// prev or the start of next when those are text leaves, else to the
// removed node's slot.
func (p Preserver) Removed(removed map[doctree.NodeKey]bool, prev, next, parent *doctree.Node, index int) {
	target := doctree.ElementPoint(parent, index)
	switch {
	case prev != nil && prev.IsText():
		target = doctree.TextPoint(prev, prev.TextSize())
	case next != nil && next.IsText():
		target = doctree.TextPoint(next, 0)
	}
	p.translate(func(pt doctree.Point) doctree.Point {
		switch {
		case removed[pt.Key]:
			return target
		case pt.Key == parent.Key() && pt.Type == doctree.PointElement && pt.Offset > index:
			return doctree.ElementPoint(parent, pt.Offset-1)
		}
		return pt
	})
}

// Reanchor moves a selection that lost its node to the end of prev if it is
// a text leaf, else the start of next if it is a text leaf, else the end of
// parent. It reports whether the selection was moved.
func (p Preserver) Reanchor(prev, next, parent *doctree.Node) bool {
	sel := p.tx.Selection()
	if sel == nil {
		return false
	}
	if p.tx.ValidPoint(sel.Anchor) && p.tx.ValidPoint(sel.Focus) {
		return false
	}

	var target doctree.Point
	switch {
	case prev != nil && prev.IsText() && prev.IsAttached():
		target = doctree.TextPoint(prev, prev.TextSize())
	case next != nil && next.IsText() && next.IsAttached():
		target = doctree.TextPoint(next, 0)
	case parent != nil && parent.IsAttached():
		target = doctree.ElementPoint(parent, parent.ChildCount())
	default:
		return false
	}
	return p.tx.SetSelection(doctree.Caret(target)) == nil
}
