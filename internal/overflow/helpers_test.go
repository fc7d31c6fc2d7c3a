package overflow

import (
	"testing"

	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/doctree/doctreetest"
)

func newDoc(t *testing.T, paragraphs ...string) (*doctree.Editor, []*doctree.Node) {
	t.Helper()
	e := doctreetest.NewEditor()
	return e, doctreetest.Paragraphs(t, e, paragraphs...)
}

func update(t *testing.T, e *doctree.Editor, fn func(tx *doctree.Tx) error) {
	t.Helper()
	doctreetest.Update(t, e, fn)
}

func scan(t *testing.T, e *doctree.Editor, boundary int) Stats {
	t.Helper()
	var stats Stats
	update(t, e, func(tx *doctree.Tx) error {
		var err error
		stats, err = Scan(tx, boundary)
		return err
	})
	return stats
}

var (
	docShape   = doctreetest.DocShape
	split      = doctreetest.Coverage
	containers = doctreetest.Containers
)
