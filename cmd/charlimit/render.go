package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/charlimit/internal/doctree"
)

// renderer prints documents with overflow marked, either styled for a
// terminal or with [[ ]] brackets.
type renderer struct {
	styled   bool
	overflow lipgloss.Style
	over     lipgloss.Style
	under    lipgloss.Style
}

func newRenderer(styled bool) renderer {
	return renderer{
		styled:   styled,
		overflow: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Background(lipgloss.Color("52")),
		over:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		under:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Document renders each top-level block on its own line.
func (r renderer) Document(ed *doctree.Editor) string {
	var sb strings.Builder
	ed.Read(func(root *doctree.Node, _ *doctree.Selection) {
		for i, block := range root.Children() {
			if i > 0 {
				sb.WriteByte('\n')
			}
			r.node(&sb, block)
		}
	})
	return sb.String()
}

func (r renderer) node(sb *strings.Builder, n *doctree.Node) {
	switch {
	case n.IsOverflow():
		text := n.Text()
		if r.styled {
			sb.WriteString(r.overflow.Render(text))
		} else {
			sb.WriteString("[[" + text + "]]")
		}
	case n.IsLeaf():
		sb.WriteString(n.Text())
	default:
		for _, c := range n.Children() {
			r.node(sb, c)
		}
	}
}

// Remaining renders the remaining budget line.
func (r renderer) Remaining(remaining, max int) string {
	line := fmt.Sprintf("%d/%d characters remaining", remaining, max)
	if remaining < 0 {
		line = fmt.Sprintf("%d characters over the limit of %d", -remaining, max)
	}
	if !r.styled {
		return line
	}
	if remaining < 0 {
		return r.over.Render(line)
	}
	return r.under.Render(line)
}
