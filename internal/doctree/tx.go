package doctree

import (
	"fmt"

	"github.com/dshills/charlimit/internal/measure"
)

// Tx is the transaction context handed to update functions.
// It is only valid until the update function returns.
type Tx struct {
	ed     *Editor
	st     *state
	closed bool

	dirtyLeaves   map[NodeKey]struct{}
	dirtyElements map[NodeKey]struct{}
}

func newTx(e *Editor, st *state) *Tx {
	return &Tx{
		ed:            e,
		st:            st,
		dirtyLeaves:   make(map[NodeKey]struct{}),
		dirtyElements: make(map[NodeKey]struct{}),
	}
}

func (tx *Tx) changed() bool {
	return len(tx.dirtyLeaves) > 0 || len(tx.dirtyElements) > 0
}

func (tx *Tx) check() error {
	if tx.closed {
		return ErrTxClosed
	}
	return nil
}

// Root returns the document root.
func (tx *Tx) Root() *Node { return tx.st.root }

// NodeByKey returns the node with key k, attached or not, or nil.
func (tx *Tx) NodeByKey(k NodeKey) *Node { return tx.st.nodes[k] }

// TextContent returns the document's plain text.
func (tx *Tx) TextContent() string { return tx.st.textContent() }

// HasNodes reports whether the editor registers every kind.
func (tx *Tx) HasNodes(kinds ...Kind) bool { return tx.ed.HasNodes(kinds...) }

// MarkDirty records n as changed so listeners see it.
func (tx *Tx) MarkDirty(n *Node) {
	if n.IsLeaf() {
		tx.dirtyLeaves[n.key] = struct{}{}
	} else {
		tx.dirtyElements[n.key] = struct{}{}
	}
}

// CreateText creates a detached simple text leaf.
func (tx *Tx) CreateText(text string) *Node {
	return tx.CreateTextMode(text, ModeNormal)
}

// CreateTextMode creates a detached text leaf with the given mode.
func (tx *Tx) CreateTextMode(text string, mode TextMode) *Node {
	n := tx.st.newNode(KindText)
	n.text = text
	n.mode = mode
	tx.MarkDirty(n)
	return n
}

// CreateLineBreak creates a detached line-break leaf.
func (tx *Tx) CreateLineBreak() *Node {
	n := tx.st.newNode(KindLineBreak)
	tx.MarkDirty(n)
	return n
}

// CreateElement creates a detached element of the given type.
func (tx *Tx) CreateElement(typ string) *Node {
	n := tx.st.newNode(KindElement)
	n.typ = typ
	tx.MarkDirty(n)
	return n
}

// CreateOverflow creates a detached overflow container.
func (tx *Tx) CreateOverflow() (*Node, error) {
	if !tx.ed.registered[KindOverflow] {
		return nil, fmt.Errorf("create %s: %w", KindOverflow, ErrNodeNotRegistered)
	}
	n := tx.st.newNode(KindOverflow)
	tx.MarkDirty(n)
	return n, nil
}

// detach removes n from its parent, if any.
func (tx *Tx) detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	tx.MarkDirty(p)
}

// checkMovable verifies n may be placed under parent.
func (tx *Tx) checkMovable(parent, n *Node) error {
	if err := tx.check(); err != nil {
		return err
	}
	if !parent.IsElement() {
		return fmt.Errorf("insert into %s %d: %w", parent.kind, parent.key, ErrNotElement)
	}
	if n.root {
		return ErrRoot
	}
	if n == parent || n.IsAncestorOf(parent) {
		return fmt.Errorf("insert %d under %d: %w", n.key, parent.key, ErrCycle)
	}
	return nil
}

func (tx *Tx) insertAt(parent *Node, i int, n *Node) {
	tx.detach(n)
	if i > len(parent.children) {
		i = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[i+1:], parent.children[i:])
	parent.children[i] = n
	n.parent = parent
	tx.MarkDirty(n)
	tx.MarkDirty(parent)
}

// Append moves nodes to the end of parent's children, in order.
func (tx *Tx) Append(parent *Node, nodes ...*Node) error {
	for _, n := range nodes {
		if err := tx.checkMovable(parent, n); err != nil {
			return err
		}
		tx.detach(n)
		tx.insertAt(parent, len(parent.children), n)
	}
	return nil
}

// InsertBefore moves n to immediately before ref.
func (tx *Tx) InsertBefore(ref, n *Node) error {
	if ref.parent == nil {
		return fmt.Errorf("insert before %d: %w", ref.key, ErrDetached)
	}
	if err := tx.checkMovable(ref.parent, n); err != nil {
		return err
	}
	if n == ref {
		return nil
	}
	tx.detach(n)
	tx.insertAt(ref.parent, ref.Index(), n)
	return nil
}

// InsertAfter moves n to immediately after ref.
func (tx *Tx) InsertAfter(ref, n *Node) error {
	if ref.parent == nil {
		return fmt.Errorf("insert after %d: %w", ref.key, ErrDetached)
	}
	if err := tx.checkMovable(ref.parent, n); err != nil {
		return err
	}
	if n == ref {
		return nil
	}
	tx.detach(n)
	tx.insertAt(ref.parent, ref.Index()+1, n)
	return nil
}

// Replace puts n in old's position and detaches old.
func (tx *Tx) Replace(old, n *Node) error {
	if old.root {
		return ErrRoot
	}
	if err := tx.InsertBefore(old, n); err != nil {
		return err
	}
	tx.detach(old)
	return nil
}

// Remove detaches n from the tree. Removing a detached node is a no-op.
func (tx *Tx) Remove(n *Node) error {
	if err := tx.check(); err != nil {
		return err
	}
	if n.root {
		return ErrRoot
	}
	tx.detach(n)
	return nil
}

// SetText replaces the payload of a text leaf.
func (tx *Tx) SetText(n *Node, text string) error {
	if err := tx.check(); err != nil {
		return err
	}
	if n.kind != KindText {
		return fmt.Errorf("set text on %s %d: %w", n.kind, n.key, ErrNotText)
	}
	if n.text != text {
		n.text = text
		tx.MarkDirty(n)
	}
	return nil
}

// SplitText splits a text leaf at a UTF-16 offset in [0, TextSize].
//
// n keeps the text before the offset and a new leaf with the same mode,
// inserted right after n, receives the rest. Selection points are not
// moved; callers that need them moved translate them themselves.
func (tx *Tx) SplitText(n *Node, offset int) (before, after *Node, err error) {
	if err := tx.check(); err != nil {
		return nil, nil, err
	}
	if n.kind != KindText {
		return nil, nil, fmt.Errorf("split %s %d: %w", n.kind, n.key, ErrNotText)
	}
	if n.parent == nil {
		return nil, nil, fmt.Errorf("split %d: %w", n.key, ErrDetached)
	}
	if offset < 0 || offset > n.TextSize() {
		return nil, nil, fmt.Errorf("split %d at %d: %w", n.key, offset, ErrOffsetOutOfRange)
	}

	cut := measure.ByteIndex(n.text, offset)
	rest := n.text[cut:]
	n.text = n.text[:cut]
	tx.MarkDirty(n)

	after = tx.CreateTextMode(rest, n.mode)
	tx.insertAt(n.parent, n.Index()+1, after)
	return n, after, nil
}

// Selection returns a copy of the selection, or nil.
func (tx *Tx) Selection() *Selection { return tx.st.sel.Clone() }

// SetSelection replaces the selection. A nil selection clears it.
func (tx *Tx) SetSelection(sel *Selection) error {
	if err := tx.check(); err != nil {
		return err
	}
	if sel == nil {
		tx.st.sel = nil
		return nil
	}
	if !tx.ValidPoint(sel.Anchor) || !tx.ValidPoint(sel.Focus) {
		return fmt.Errorf("set selection %v..%v: %w", sel.Anchor, sel.Focus, ErrInvalidSelection)
	}
	tx.st.sel = sel.Clone()
	return nil
}

// ValidPoint reports whether p references an attached node with an offset
// in range.
func (tx *Tx) ValidPoint(p Point) bool { return validPoint(tx.st.nodes, p) }

// restore rewinds the state to a history snapshot.
func (tx *Tx) restore(snap *state) {
	tx.st.restoreFrom(snap)
	tx.MarkDirty(tx.st.root)
}

// settleSelection repairs a selection left invalid by the update: offsets
// are clamped, and points on detached nodes move to the end of the document.
func (tx *Tx) settleSelection() {
	sel := tx.st.sel
	if sel == nil {
		return
	}
	anchor, aok := tx.settlePoint(sel.Anchor)
	focus, fok := tx.settlePoint(sel.Focus)
	if !aok || !fok {
		tx.ed.logger.Debug("selection re-anchored at commit",
			"anchor", sel.Anchor.String(), "focus", sel.Focus.String())
	}
	tx.st.sel = &Selection{Anchor: anchor, Focus: focus}
}

func (tx *Tx) settlePoint(p Point) (Point, bool) {
	if tx.ValidPoint(p) {
		return p, true
	}
	n := tx.st.nodes[p.Key]
	if n != nil && n.IsAttached() && p.Offset >= 0 {
		switch {
		case p.Type == PointText && n.kind == KindText:
			return TextPoint(n, n.TextSize()), false
		case p.Type == PointElement && n.IsElement():
			return ElementPoint(n, len(n.children)), false
		}
	}
	return tx.endPoint(), false
}

// endPoint returns the last caret position in the document.
func (tx *Tx) endPoint() Point {
	leaves := Leaves(tx.st.root)
	for i := len(leaves) - 1; i >= 0; i-- {
		if leaves[i].kind == KindText {
			return TextPoint(leaves[i], leaves[i].TextSize())
		}
	}
	return ElementPoint(tx.st.root, len(tx.st.root.children))
}
