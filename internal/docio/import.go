package docio

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/charlimit/internal/doctree"
)

// Import replaces the document of ed with the editor state in data, in a
// single update. Overflow containers are kept when ed has the overflow kind
// registered and flattened into their parent otherwise.
func Import(ed *doctree.Editor, data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	doc := gjson.ParseBytes(data)
	root := doc.Get("root")
	if !root.IsObject() {
		return fmt.Errorf("%w: missing root object", ErrInvalidDocument)
	}

	return ed.Update(func(tx *doctree.Tx) error {
		r := tx.Root()
		for _, c := range r.Children() {
			if err := tx.Remove(c); err != nil {
				return err
			}
		}
		if err := decodeChildren(tx, r, root.Get("children"), "root"); err != nil {
			return err
		}
		sel := doc.Get("selection")
		if !sel.Exists() {
			return tx.SetSelection(nil)
		}
		anchor, err := decodePoint(tx, sel.Get("anchor"))
		if err != nil {
			return err
		}
		focus, err := decodePoint(tx, sel.Get("focus"))
		if err != nil {
			return err
		}
		return tx.SetSelection(&doctree.Selection{Anchor: anchor, Focus: focus})
	})
}

func decodeChildren(tx *doctree.Tx, parent *doctree.Node, children gjson.Result, at string) error {
	if !children.Exists() {
		return nil
	}
	if !children.IsArray() {
		return fmt.Errorf("%w: %s.children is not an array", ErrInvalidDocument, at)
	}
	for i, c := range children.Array() {
		if err := decodeNode(tx, parent, c, fmt.Sprintf("%s.children.%d", at, i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeNode(tx *doctree.Tx, parent *doctree.Node, v gjson.Result, at string) error {
	if !v.IsObject() {
		return fmt.Errorf("%w: %s is not an object", ErrInvalidDocument, at)
	}
	typ := v.Get("type").String()

	var n *doctree.Node
	switch typ {
	case "":
		return fmt.Errorf("%w: %s has no type", ErrInvalidDocument, at)
	case doctree.KindText.String():
		n = tx.CreateTextMode(v.Get("text").String(), doctree.ParseTextMode(v.Get("mode").String()))
	case doctree.KindLineBreak.String():
		n = tx.CreateLineBreak()
	case doctree.KindOverflow.String():
		if !tx.HasNodes(doctree.KindOverflow) {
			return decodeChildren(tx, parent, v.Get("children"), at)
		}
		c, err := tx.CreateOverflow()
		if err != nil {
			return err
		}
		n = c
	case doctree.TypeRoot:
		return fmt.Errorf("%w: %s: nested root", ErrInvalidDocument, at)
	default:
		n = tx.CreateElement(typ)
	}

	if err := tx.Append(parent, n); err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}
	if n.IsElement() {
		return decodeChildren(tx, n, v.Get("children"), at)
	}
	return nil
}

func decodePoint(tx *doctree.Tx, v gjson.Result) (doctree.Point, error) {
	n := tx.Root()
	for _, i := range v.Get("path").Array() {
		n = n.Child(int(i.Int()))
		if n == nil {
			return doctree.Point{}, fmt.Errorf("%w: selection path %s", ErrInvalidDocument, v.Get("path").Raw)
		}
	}

	offset := int(v.Get("offset").Int())
	switch v.Get("type").String() {
	case doctree.PointText.String():
		return doctree.TextPoint(n, offset), nil
	case doctree.PointElement.String():
		return doctree.ElementPoint(n, offset), nil
	default:
		return doctree.Point{}, fmt.Errorf("%w: selection point type %q", ErrInvalidDocument, v.Get("type").String())
	}
}

// FromText replaces the document of ed with a single paragraph holding
// text. Newlines become line breaks. The caret is placed at the end.
func FromText(ed *doctree.Editor, text string) error {
	return ed.Update(func(tx *doctree.Tx) error {
		r := tx.Root()
		for _, c := range r.Children() {
			if err := tx.Remove(c); err != nil {
				return err
			}
		}
		para := tx.CreateElement(doctree.TypeParagraph)
		if err := tx.Append(r, para); err != nil {
			return err
		}
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				if err := tx.Append(para, tx.CreateLineBreak()); err != nil {
					return err
				}
			}
			if line == "" {
				continue
			}
			if err := tx.Append(para, tx.CreateText(line)); err != nil {
				return err
			}
		}
		last := para.LastChild()
		if last != nil && last.IsText() {
			return tx.SetSelection(doctree.Caret(doctree.TextPoint(last, last.TextSize())))
		}
		return tx.SetSelection(doctree.Caret(doctree.ElementPoint(para, para.ChildCount())))
	})
}
