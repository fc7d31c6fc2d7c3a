package doctree

import (
	"strings"

	"github.com/dshills/charlimit/internal/measure"
)

// NodeKey identifies a node within one editor.
type NodeKey uint64

// Kind is the node variant.
type Kind uint8

const (
	// KindElement is a structural node with ordered children.
	KindElement Kind = iota + 1
	// KindText is a leaf owning a text payload.
	KindText
	// KindLineBreak is a leaf whose text is a single newline.
	KindLineBreak
	// KindOverflow is an element that marks its children as over budget.
	KindOverflow
)

// String returns the serialized name of the kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindLineBreak:
		return "linebreak"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// TextMode controls whether a text leaf may be split.
type TextMode uint8

const (
	// ModeNormal text is simple: plain, stylable and splittable anywhere.
	ModeNormal TextMode = iota
	// ModeToken text behaves as one unit (mentions, hashtags).
	ModeToken
	// ModeSegmented text is deleted segment-wise.
	ModeSegmented
)

// String returns the serialized name of the mode.
func (m TextMode) String() string {
	switch m {
	case ModeToken:
		return "token"
	case ModeSegmented:
		return "segmented"
	default:
		return "normal"
	}
}

// ParseTextMode parses a serialized mode name. Unknown names map to ModeNormal.
func ParseTextMode(s string) TextMode {
	switch s {
	case "token":
		return ModeToken
	case "segmented":
		return ModeSegmented
	default:
		return ModeNormal
	}
}

// Default element types.
const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
)

// Node is a read-only view of a document node.
// Use Tx methods to mutate it.
type Node struct {
	key      NodeKey
	kind     Kind
	typ      string
	text     string
	mode     TextMode
	root     bool
	parent   *Node
	children []*Node
}

// Key returns the node key.
func (n *Node) Key() NodeKey { return n.key }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the element type ("root", "paragraph", ...). Leaves return
// their kind name.
func (n *Node) Type() string {
	if n.typ == "" {
		return n.kind.String()
	}
	return n.typ
}

// Mode returns the text mode of a text leaf.
func (n *Node) Mode() TextMode { return n.mode }

// IsRoot reports whether n is the document root.
func (n *Node) IsRoot() bool { return n.root }

// IsLeaf reports whether n is a text or line-break leaf.
func (n *Node) IsLeaf() bool {
	switch n.kind {
	case KindText, KindLineBreak:
		return true
	default:
		return false
	}
}

// IsElement reports whether n can have children.
func (n *Node) IsElement() bool {
	switch n.kind {
	case KindElement, KindOverflow:
		return true
	default:
		return false
	}
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool { return n.kind == KindText }

// IsSimpleText reports whether n is a text leaf in normal mode.
func (n *Node) IsSimpleText() bool { return n.kind == KindText && n.mode == ModeNormal }

// IsOverflow reports whether n is an overflow container.
func (n *Node) IsOverflow() bool { return n.kind == KindOverflow }

// Text returns the node's text: the payload of a text leaf, "\n" for a line
// break, and the concatenated leaf text of an element.
func (n *Node) Text() string {
	switch n.kind {
	case KindText:
		return n.text
	case KindLineBreak:
		return "\n"
	default:
		var sb strings.Builder
		n.writeText(&sb)
		return sb.String()
	}
}

func (n *Node) writeText(sb *strings.Builder) {
	switch n.kind {
	case KindText:
		sb.WriteString(n.text)
	case KindLineBreak:
		sb.WriteByte('\n')
	default:
		for _, c := range n.children {
			c.writeText(sb)
		}
	}
}

// TextSize returns the UTF-16 length of Text.
func (n *Node) TextSize() int {
	switch n.kind {
	case KindText:
		return measure.UTF16(n.text)
	case KindLineBreak:
		return 1
	default:
		size := 0
		for _, c := range n.children {
			size += c.TextSize()
		}
		return size
	}
}

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node { return n.Child(0) }

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node { return n.Child(len(n.children) - 1) }

// Index returns the position of n in its parent's child list, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// PrevSibling returns the preceding sibling or nil.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// NextSibling returns the following sibling or nil.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 {
		return nil
	}
	return n.parent.Child(i + 1)
}

// FirstDescendant follows first children down from n and returns the
// deepest node reached, or nil if n has no children.
func (n *Node) FirstDescendant() *Node {
	if len(n.children) == 0 {
		return nil
	}
	d := n.children[0]
	for len(d.children) > 0 {
		d = d.children[0]
	}
	return d
}

// LastDescendant follows last children down from n and returns the deepest
// node reached, or nil if n has no children.
func (n *Node) LastDescendant() *Node {
	if len(n.children) == 0 {
		return nil
	}
	d := n.children[len(n.children)-1]
	for len(d.children) > 0 {
		d = d.children[len(d.children)-1]
	}
	return d
}

// IsAttached reports whether n is reachable from the document root.
func (n *Node) IsAttached() bool {
	for p := n; p != nil; p = p.parent {
		if p.root {
			return true
		}
	}
	return false
}

// IsEmpty reports whether an element has no children.
func (n *Node) IsEmpty() bool { return len(n.children) == 0 }

// NearestAncestor returns the closest proper ancestor of n of the given kind.
func (n *Node) NearestAncestor(kind Kind) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.kind == kind {
			return p
		}
	}
	return nil
}

// IsAncestorOf reports whether n is a proper ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// DFS returns n and its descendants in document (pre-)order.
func DFS(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(x *Node) {
		out = append(out, x)
		for _, c := range x.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Leaves returns the leaves under n in document order.
func Leaves(n *Node) []*Node {
	var out []*Node
	for _, x := range DFS(n) {
		if x.IsLeaf() {
			out = append(out, x)
		}
	}
	return out
}
