// Package doctreetest provides helpers for tests that build and inspect
// doctree documents.
package doctreetest

import (
	"strings"
	"testing"

	"github.com/dshills/charlimit/internal/doctree"
)

// NewEditor returns an editor with overflow containers registered.
func NewEditor(opts ...doctree.Option) *doctree.Editor {
	return doctree.New(append([]doctree.Option{doctree.WithNodes(doctree.KindOverflow)}, opts...)...)
}

// Paragraphs fills e with one paragraph per argument, each holding a single
// simple text leaf, and returns the leaves.
func Paragraphs(t testing.TB, e *doctree.Editor, paragraphs ...string) []*doctree.Node {
	t.Helper()
	var leaves []*doctree.Node
	Update(t, e, func(tx *doctree.Tx) error {
		for _, p := range paragraphs {
			para := tx.CreateElement(doctree.TypeParagraph)
			leaf := tx.CreateText(p)
			if err := tx.Append(para, leaf); err != nil {
				return err
			}
			if err := tx.Append(tx.Root(), para); err != nil {
				return err
			}
			leaves = append(leaves, leaf)
		}
		return nil
	})
	return leaves
}

// Update runs fn in an update and fails the test on error.
func Update(t testing.TB, e *doctree.Editor, fn func(tx *doctree.Tx) error, opts ...doctree.UpdateOption) {
	t.Helper()
	if err := e.Update(fn, opts...); err != nil {
		t.Fatalf("update: %v", err)
	}
}

// SetCaret collapses the selection at p.
func SetCaret(t testing.TB, e *doctree.Editor, p doctree.Point) {
	t.Helper()
	Update(t, e, func(tx *doctree.Tx) error { return tx.SetSelection(doctree.Caret(p)) })
}

// Shape renders a subtree compactly: elements as type(...), overflow
// containers as [...], text as "quoted" and line breaks as /.
func Shape(n *doctree.Node) string {
	var sb strings.Builder
	writeShape(&sb, n)
	return sb.String()
}

func writeShape(sb *strings.Builder, n *doctree.Node) {
	switch n.Kind() {
	case doctree.KindText:
		sb.WriteString(`"` + n.Text() + `"`)
		return
	case doctree.KindLineBreak:
		sb.WriteString("/")
		return
	case doctree.KindOverflow:
		sb.WriteString("[")
	default:
		sb.WriteString(n.Type() + "(")
	}
	for i, c := range n.Children() {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeShape(sb, c)
	}
	if n.IsOverflow() {
		sb.WriteString("]")
	} else {
		sb.WriteString(")")
	}
}

// DocShape renders the whole document of e.
func DocShape(e *doctree.Editor) string {
	var out string
	e.Read(func(root *doctree.Node, _ *doctree.Selection) { out = Shape(root) })
	return out
}

// Coverage returns the document text outside and inside overflow
// containers.
func Coverage(e *doctree.Editor) (plain, covered string) {
	var p, c strings.Builder
	e.Read(func(root *doctree.Node, _ *doctree.Selection) {
		for _, leaf := range doctree.Leaves(root) {
			if leaf.NearestAncestor(doctree.KindOverflow) != nil {
				c.WriteString(leaf.Text())
			} else {
				p.WriteString(leaf.Text())
			}
		}
	})
	return p.String(), c.String()
}

// Containers returns the overflow containers of e in document order.
func Containers(e *doctree.Editor) []*doctree.Node {
	var out []*doctree.Node
	e.Read(func(root *doctree.Node, _ *doctree.Selection) {
		for _, n := range doctree.DFS(root) {
			if n.IsOverflow() {
				out = append(out, n)
			}
		}
	})
	return out
}
