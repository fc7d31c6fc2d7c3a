package doctree

// state is the complete mutable editor state: the tree and the selection.
type state struct {
	root    *Node
	sel     *Selection
	nodes   map[NodeKey]*Node
	nextKey NodeKey
}

func newState() *state {
	s := &state{nodes: make(map[NodeKey]*Node)}
	s.root = s.newNode(KindElement)
	s.root.typ = TypeRoot
	s.root.root = true
	return s
}

func (s *state) newNode(kind Kind) *Node {
	s.nextKey++
	n := &Node{key: s.nextKey, kind: kind}
	s.nodes[n.key] = n
	return n
}

// clone deep-copies the attached tree. Detached nodes are not carried over.
func (s *state) clone() *state {
	c := &state{
		sel:     s.sel.Clone(),
		nodes:   make(map[NodeKey]*Node, len(s.nodes)),
		nextKey: s.nextKey,
	}
	c.root = c.copyNode(s.root, nil)
	return c
}

func (s *state) copyNode(n, parent *Node) *Node {
	cp := &Node{
		key:    n.key,
		kind:   n.kind,
		typ:    n.typ,
		text:   n.text,
		mode:   n.mode,
		root:   n.root,
		parent: parent,
	}
	s.nodes[cp.key] = cp
	if len(n.children) > 0 {
		cp.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			cp.children[i] = s.copyNode(child, cp)
		}
	}
	return cp
}

func (s *state) textContent() string {
	return s.root.Text()
}

// restoreFrom rewinds s to snap in place. Node identity is preserved by key,
// so *Node values held by callers stay valid. Nodes unknown to snap end up
// detached.
func (s *state) restoreFrom(snap *state) {
	for k, sn := range snap.nodes {
		n := s.nodes[k]
		if n == nil {
			n = &Node{key: k}
			s.nodes[k] = n
		}
		n.kind, n.typ, n.text, n.mode, n.root = sn.kind, sn.typ, sn.text, sn.mode, sn.root
	}
	for k, sn := range snap.nodes {
		n := s.nodes[k]
		n.parent = nil
		if sn.parent != nil {
			n.parent = s.nodes[sn.parent.key]
		}
		n.children = nil
		if len(sn.children) > 0 {
			n.children = make([]*Node, len(sn.children))
			for i, c := range sn.children {
				n.children[i] = s.nodes[c.key]
			}
		}
	}
	for k, n := range s.nodes {
		if _, ok := snap.nodes[k]; ok {
			continue
		}
		n.parent = nil
		kept := n.children[:0]
		for _, c := range n.children {
			if c.parent == n {
				kept = append(kept, c)
			}
		}
		n.children = kept
	}
	s.root = s.nodes[snap.root.key]
	s.sel = snap.sel.Clone()
	s.nextKey = max(s.nextKey, snap.nextKey)
}
