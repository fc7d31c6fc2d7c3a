package doctree

import "fmt"

// PointType says how a point's offset is interpreted.
type PointType uint8

const (
	// PointText offsets count UTF-16 units into a text leaf.
	PointText PointType = iota
	// PointElement offsets count children of an element.
	PointElement
)

// String returns the point type name.
func (t PointType) String() string {
	if t == PointElement {
		return "element"
	}
	return "text"
}

// Point is one end of a selection.
type Point struct {
	Key    NodeKey
	Offset int
	Type   PointType
}

// String formats the point for logs and test failures.
func (p Point) String() string {
	return fmt.Sprintf("%s(%d:%d)", p.Type, p.Key, p.Offset)
}

// TextPoint returns a text point inside n.
func TextPoint(n *Node, offset int) Point {
	return Point{Key: n.key, Offset: offset, Type: PointText}
}

// ElementPoint returns an element point inside n.
func ElementPoint(n *Node, offset int) Point {
	return Point{Key: n.key, Offset: offset, Type: PointElement}
}

// Selection is a range between an anchor and a focus point.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Caret returns a collapsed selection at p.
func Caret(p Point) *Selection {
	return &Selection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s *Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// Clone returns a copy of s. A nil selection clones to nil.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// validPoint reports whether p references an attached node with an offset in
// range for its type.
func validPoint(nodes map[NodeKey]*Node, p Point) bool {
	n, ok := nodes[p.Key]
	if !ok || !n.IsAttached() || p.Offset < 0 {
		return false
	}
	switch p.Type {
	case PointText:
		return n.kind == KindText && p.Offset <= n.TextSize()
	case PointElement:
		return n.IsElement() && p.Offset <= len(n.children)
	default:
		return false
	}
}
