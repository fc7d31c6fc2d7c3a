package charlimit

import (
	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/overflow"
)

// onDeleteCharacter performs the deletion itself, then removes the overflow
// container around the caret if the deletion emptied it, or else the
// element right after that container if it is empty.
func (l *limiter) onDeleteCharacter(tx *doctree.Tx, payload any) bool {
	sel := tx.Selection()
	if sel == nil {
		return false
	}
	anchor := tx.NodeByKey(sel.Anchor.Key)
	if anchor == nil {
		return false
	}

	container := anchor
	if !container.IsOverflow() {
		container = anchor.NearestAncestor(doctree.KindOverflow)
	}
	var next *doctree.Node
	if container != nil {
		next = container.NextSibling()
	}

	backward, _ := payload.(bool)
	tx.DeleteCharacter(backward)

	var err error
	switch {
	case container != nil && container.IsAttached() && container.IsEmpty():
		err = overflow.Remove(tx, container)
	case next != nil && next.IsElement() && next.IsAttached() && next.IsEmpty():
		err = overflow.Remove(tx, next)
	}
	if err != nil {
		l.logger.Error("removing emptied node failed", "error", err)
	}
	return true
}
