package docio

import (
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/charlimit/internal/doctree"
)

// ExportOption configures Export.
type ExportOption func(*exportConfig)

type exportConfig struct {
	indent bool
}

// WithIndent pretty-prints the output.
func WithIndent() ExportOption {
	return func(c *exportConfig) { c.indent = true }
}

// Export serializes the document and selection of ed.
func Export(ed *doctree.Editor, opts ...ExportOption) ([]byte, error) {
	var cfg exportConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		out []byte
		err error
	)
	ed.Read(func(root *doctree.Node, sel *doctree.Selection) {
		var node string
		node, err = encodeNode(root)
		if err != nil {
			return
		}
		out, err = sjson.SetRawBytes([]byte(`{}`), "root", []byte(node))
		if err != nil || sel == nil {
			return
		}
		if out, err = encodePoint(out, "selection.anchor", root, sel.Anchor); err != nil {
			return
		}
		out, err = encodePoint(out, "selection.focus", root, sel.Focus)
	})
	if err != nil {
		return nil, err
	}
	if cfg.indent {
		out = pretty.Pretty(out)
	}
	return out, nil
}

func encodeNode(n *doctree.Node) (string, error) {
	js, err := sjson.Set(`{}`, "type", n.Type())
	if err != nil {
		return "", err
	}

	switch n.Kind() {
	case doctree.KindText:
		if js, err = sjson.Set(js, "text", n.Text()); err != nil {
			return "", err
		}
		return sjson.Set(js, "mode", n.Mode().String())
	case doctree.KindLineBreak:
		return js, nil
	}

	if js, err = sjson.SetRaw(js, "children", `[]`); err != nil {
		return "", err
	}
	for _, c := range n.Children() {
		child, err := encodeNode(c)
		if err != nil {
			return "", err
		}
		if js, err = sjson.SetRaw(js, "children.-1", child); err != nil {
			return "", err
		}
	}
	return js, nil
}

func encodePoint(out []byte, prefix string, root *doctree.Node, p doctree.Point) ([]byte, error) {
	path, ok := pathTo(root, p.Key)
	if !ok {
		return out, nil
	}
	out, err := sjson.SetBytes(out, prefix+".path", path)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, prefix+".offset", p.Offset); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, prefix+".type", p.Type.String())
}

// pathTo returns the child indexes leading from root to the node with key.
func pathTo(root *doctree.Node, key doctree.NodeKey) ([]int, bool) {
	for _, n := range doctree.DFS(root) {
		if n.Key() != key {
			continue
		}
		path := []int{}
		for x := n; x != root; x = x.Parent() {
			path = append([]int{x.Index()}, path...)
		}
		return path, true
	}
	return nil, false
}
