package doctree

import (
	"strings"
	"testing"
)

// newDoc creates an editor holding one paragraph per argument, each with a
// single simple text leaf, and returns the editor and the text leaves.
func newDoc(t *testing.T, paragraphs ...string) (*Editor, []*Node) {
	t.Helper()
	e := New(WithNodes(KindOverflow))
	var leaves []*Node
	err := e.Update(func(tx *Tx) error {
		for _, p := range paragraphs {
			para := tx.CreateElement(TypeParagraph)
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
	if err != nil {
		t.Fatalf("building document: %v", err)
	}
	return e, leaves
}

// shape renders the tree compactly: elements as type(...), overflow as
// [...], text as "quoted", line breaks as /.
func shape(n *Node) string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(x *Node) {
		switch x.Kind() {
		case KindText:
			sb.WriteString(`"` + x.Text() + `"`)
		case KindLineBreak:
			sb.WriteString("/")
		case KindOverflow:
			sb.WriteString("[")
			for i, c := range x.children {
				if i > 0 {
					sb.WriteString(" ")
				}
				walk(c)
			}
			sb.WriteString("]")
		default:
			sb.WriteString(x.Type() + "(")
			for i, c := range x.children {
				if i > 0 {
					sb.WriteString(" ")
				}
				walk(c)
			}
			sb.WriteString(")")
		}
	}
	walk(n)
	return sb.String()
}

func docShape(e *Editor) string {
	var out string
	e.Read(func(root *Node, _ *Selection) { out = shape(root) })
	return out
}

func update(t *testing.T, e *Editor, fn func(tx *Tx) error, opts ...UpdateOption) {
	t.Helper()
	if err := e.Update(fn, opts...); err != nil {
		t.Fatalf("update: %v", err)
	}
}
