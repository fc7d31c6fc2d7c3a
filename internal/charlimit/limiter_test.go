package charlimit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/doctree/doctreetest"
	"github.com/dshills/charlimit/internal/measure"
	"github.com/dshills/charlimit/internal/segment"
)

// recorder collects remaining-budget callbacks.
type recorder struct {
	values []int
}

func (r *recorder) record(v int) { r.values = append(r.values, v) }

func register(t *testing.T, e *doctree.Editor, max int, opts ...Option) func() {
	t.Helper()
	dispose, err := Register(e, max, opts...)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(dispose)
	return dispose
}

func deleteBackward(t *testing.T, e *doctree.Editor) {
	t.Helper()
	handled, err := e.Dispatch(doctree.DeleteCharacterCommand, true)
	if err != nil || !handled {
		t.Fatalf("delete: handled=%v err=%v", handled, err)
	}
}

func insert(t *testing.T, e *doctree.Editor, text string) {
	t.Helper()
	handled, err := e.Dispatch(doctree.InsertTextCommand, text)
	if err != nil || !handled {
		t.Fatalf("insert %q: handled=%v err=%v", text, handled, err)
	}
}

func TestRegisterRequiresOverflowNode(t *testing.T) {
	e := doctree.New()
	dispose, err := Register(e, 5)
	if !errors.Is(err, ErrOverflowNotRegistered) {
		t.Fatalf("err = %v, want ErrOverflowNotRegistered", err)
	}
	if dispose != nil {
		t.Error("disposer returned on failure")
	}
	if n := e.CommandHandlers(doctree.DeleteCharacterCommand); n != 1 {
		t.Errorf("delete handlers = %d, want only the built-in", n)
	}
}

func TestRegisterMarksExistingOverflow(t *testing.T) {
	e := doctreetest.NewEditor()
	doctreetest.Paragraphs(t, e, "Hello World")
	rec := &recorder{}
	register(t, e, 5, WithRemainingCallback(rec.record))

	if got, want := doctreetest.DocShape(e), `root(paragraph("Hello" [" World"]))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
	if diff := cmp.Diff([]int{-6}, rec.values); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
	if e.TextContent() != "Hello World" {
		t.Errorf("text changed: %q", e.TextContent())
	}
}

func TestTypingPastBudget(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "abc")
	register(t, e, 3)
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 3))

	insert(t, e, "defgh")

	if got, want := doctreetest.DocShape(e), `root(paragraph("abc" ["defgh"]))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
	c := doctreetest.Containers(e)
	if len(c) != 1 {
		t.Fatalf("containers = %d", len(c))
	}
	if got, want := e.Selection().Anchor, doctree.TextPoint(c[0].FirstChild(), 5); got != want {
		t.Errorf("caret = %v, want %v", got, want)
	}
}

func TestDeletingBackUnderBudget(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "Hello World")
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 11))
	rec := &recorder{}
	register(t, e, 5, WithRemainingCallback(rec.record))

	steps := []string{
		`root(paragraph("Hello" [" Worl"]))`,
		`root(paragraph("Hello" [" Wor"]))`,
		`root(paragraph("Hello" [" Wo"]))`,
		`root(paragraph("Hello" [" W"]))`,
		`root(paragraph("Hello" [" "]))`,
		`root(paragraph("Hello"))`,
	}
	for i, want := range steps {
		deleteBackward(t, e)
		if got := doctreetest.DocShape(e); got != want {
			t.Fatalf("step %d: shape = %s, want %s", i, got, want)
		}
	}

	if got, want := e.Selection().Anchor, doctree.TextPoint(leaves[0], 5); got != want {
		t.Errorf("caret = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]int{-6, -5, -4, -3, -2, -1, 0}, rec.values); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
}

func TestRemainingReportedOnEveryChange(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "Hello")
	rec := &recorder{}
	register(t, e, 10, WithRemainingCallback(rec.record))

	// Same length, still a content change.
	doctreetest.Update(t, e, func(tx *doctree.Tx) error { return tx.SetText(leaves[0], "Jello") })
	doctreetest.Update(t, e, func(tx *doctree.Tx) error { return tx.SetText(leaves[0], "Jell") })
	// No dirty nodes, nothing to report.
	doctreetest.Update(t, e, func(*doctree.Tx) error { return nil })

	if diff := cmp.Diff([]int{5, 5, 6}, rec.values); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
}

func TestDeleteInPrefixShrinksContainer(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "Hello World")
	register(t, e, 8)
	if got, want := doctreetest.DocShape(e), `root(paragraph("Hello Wo" ["rld"]))`; got != want {
		t.Fatalf("shape = %s, want %s", got, want)
	}

	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 3))
	deleteBackward(t, e)

	if got, want := doctreetest.DocShape(e), `root(paragraph("Helo Wo" "r" ["ld"]))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
	plain, covered := doctreetest.Coverage(e)
	if plain != "Helo Wor" || covered != "ld" {
		t.Errorf("coverage = %q | %q", plain, covered)
	}
}

func TestDeleteRemovesEmptyElementAfterContainer(t *testing.T) {
	e := doctreetest.NewEditor()
	var cd *doctree.Node
	doctreetest.Update(t, e, func(tx *doctree.Tx) error {
		para := tx.CreateElement(doctree.TypeParagraph)
		cd = tx.CreateText("cd")
		if err := tx.Append(tx.Root(), para); err != nil {
			return err
		}
		return tx.Append(para, tx.CreateText("ab"), cd, tx.CreateElement("quote"))
	})
	register(t, e, 2)
	if got, want := doctreetest.DocShape(e), `root(paragraph("ab" ["cd"] quote()))`; got != want {
		t.Fatalf("shape = %s, want %s", got, want)
	}

	doctreetest.SetCaret(t, e, doctree.TextPoint(cd, 2))
	deleteBackward(t, e)

	if got, want := doctreetest.DocShape(e), `root(paragraph("ab" ["c"]))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
}

func TestDeleteWithoutSelectionFallsThrough(t *testing.T) {
	e := doctreetest.NewEditor()
	doctreetest.Paragraphs(t, e, "abc")
	register(t, e, 2)

	handled, err := e.Dispatch(doctree.DeleteCharacterCommand, true)
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("delete without a selection reported handled")
	}
}

func TestComposingDefersRescan(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "abc")
	register(t, e, 3)
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 3))

	if err := e.SetComposing(true); err != nil {
		t.Fatal(err)
	}
	insert(t, e, "de")
	if got, want := doctreetest.DocShape(e), `root(paragraph("abcde"))`; got != want {
		t.Errorf("while composing: shape = %s, want %s", got, want)
	}

	if err := e.SetComposing(false); err != nil {
		t.Fatal(err)
	}
	if got, want := doctreetest.DocShape(e), `root(paragraph("abc" ["de"]))`; got != want {
		t.Errorf("after composing: shape = %s, want %s", got, want)
	}
}

func TestRescanMergesIntoUndoStep(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "Hello")
	register(t, e, 5)
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 5))
	before := e.UndoCount()

	insert(t, e, " World")
	if got := e.UndoCount(); got != before+1 {
		t.Errorf("undo entries = %d, want %d", got, before+1)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got, want := doctreetest.DocShape(e), `root(paragraph("Hello"))`; got != want {
		t.Errorf("after undo: shape = %s, want %s", got, want)
	}

	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if got, want := doctreetest.DocShape(e), `root(paragraph("Hello" [" World"]))`; got != want {
		t.Errorf("after redo: shape = %s, want %s", got, want)
	}
}

func TestDispose(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "abc")
	dispose := register(t, e, 3)
	dispose()
	dispose()

	if n := e.CommandHandlers(doctree.DeleteCharacterCommand); n != 1 {
		t.Errorf("delete handlers = %d, want 1", n)
	}
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[0], 3))
	insert(t, e, "def")
	if got, want := doctreetest.DocShape(e), `root(paragraph("abcdef"))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
}

func TestCustomMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		opts []Option
		want string
	}{
		{
			name: "bytes",
			text: "h\u00e9llo",
			max:  5,
			opts: []Option{WithStrlen(measure.Bytes)},
			want: "root(paragraph(\"h\u00e9ll\" [\"o\"]))",
		},
		{
			name: "graphemes keep clusters whole",
			text: "ae\u0301",
			max:  2,
			want: "root(paragraph(\"a\" [\"e\u0301\"]))",
		},
		{
			name: "code point segmentation",
			text: "ae\u0301",
			max:  2,
			opts: []Option{WithSegmenter(segment.CodePoints{})},
			want: "root(paragraph(\"ae\" [\"\u0301\"]))",
		},
		{
			name: "grapheme measure",
			text: "\U0001F600\U0001F600\U0001F600",
			max:  2,
			opts: []Option{WithStrlen(measure.Graphemes)},
			want: "root(paragraph(\"\U0001F600\U0001F600\" [\"\U0001F600\"]))",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := doctreetest.NewEditor()
			doctreetest.Paragraphs(t, e, tc.text)
			register(t, e, tc.max, tc.opts...)
			if got := doctreetest.DocShape(e); got != tc.want {
				t.Errorf("shape = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSelectionStaysValid(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "one", "two")
	doctreetest.SetCaret(t, e, doctree.TextPoint(leaves[1], 3))
	register(t, e, 4)

	for _, s := range []string{"x", "yz", "w"} {
		insert(t, e, s)
		assertValidSelection(t, e)
	}
	for range 8 {
		deleteBackward(t, e)
		assertValidSelection(t, e)
	}
	plain, covered := doctreetest.Coverage(e)
	if plain+covered != e.TextContent() {
		t.Errorf("coverage %q | %q does not match %q", plain, covered, e.TextContent())
	}
}

func assertValidSelection(t *testing.T, e *doctree.Editor) {
	t.Helper()
	var anchorOK, focusOK bool
	doctreetest.Update(t, e, func(tx *doctree.Tx) error {
		sel := tx.Selection()
		if sel == nil {
			anchorOK, focusOK = true, true
			return nil
		}
		anchorOK, focusOK = tx.ValidPoint(sel.Anchor), tx.ValidPoint(sel.Focus)
		return nil
	})
	if !anchorOK || !focusOK {
		t.Errorf("selection %v invalid in %s (anchor ok=%v, focus ok=%v)",
			e.Selection(), doctreetest.DocShape(e), anchorOK, focusOK)
	}
}

func endOf(e *doctree.Editor, n *doctree.Node) doctree.Point {
	var p doctree.Point
	e.Read(func(*doctree.Node, *doctree.Selection) { p = doctree.ElementPoint(n, n.ChildCount()) })
	return p
}

func TestSelectionSurvivesEditSequence(t *testing.T) {
	e := doctreetest.NewEditor()
	leaves := doctreetest.Paragraphs(t, e, "Hello")
	head := leaves[0]
	para := head.Parent()
	doctreetest.SetCaret(t, e, doctree.ElementPoint(para, 1))
	register(t, e, 8)

	steps := []struct {
		name  string
		run   func(t *testing.T)
		shape string
		check func(t *testing.T)
	}{
		{
			name: "grow past budget under an element caret",
			run: func(t *testing.T) {
				doctreetest.Update(t, e, func(tx *doctree.Tx) error { return tx.SetText(head, "Hello World") })
			},
			shape: `root(paragraph("Hello Wo" ["rld"]))`,
			check: func(t *testing.T) {
				if got, want := e.Selection().Anchor, endOf(e, para); got != want {
					t.Errorf("caret = %v, want %v", got, want)
				}
			},
		},
		{
			name:  "insert at the paragraph end",
			run:   func(t *testing.T) { insert(t, e, "!") },
			shape: `root(paragraph("Hello Wo" ["rld" "!"]))`,
		},
		{
			name: "delete a range in the prefix",
			run: func(t *testing.T) {
				doctreetest.Update(t, e, func(tx *doctree.Tx) error {
					return tx.SetSelection(&doctree.Selection{
						Anchor: doctree.TextPoint(head, 2),
						Focus:  doctree.TextPoint(head, 6),
					})
				})
				deleteBackward(t, e)
			},
			shape: `root(paragraph("HeWo" "rld" "!"))`,
		},
		{
			name: "delete backward from an element caret",
			run: func(t *testing.T) {
				doctreetest.SetCaret(t, e, endOf(e, para))
				deleteBackward(t, e)
				deleteBackward(t, e)
			},
			shape: `root(paragraph("HeWo" "rl"))`,
		},
		{
			name: "grow past budget under an element range",
			run: func(t *testing.T) {
				doctreetest.Update(t, e, func(tx *doctree.Tx) error {
					if err := tx.SetSelection(&doctree.Selection{
						Anchor: doctree.ElementPoint(para, 0),
						Focus:  doctree.ElementPoint(para, para.ChildCount()),
					}); err != nil {
						return err
					}
					return tx.SetText(head, "HeWo and a lot more")
				})
			},
			shape: `root(paragraph("HeWo and" [" a lot more" "rl"]))`,
			check: func(t *testing.T) {
				sel := e.Selection()
				if got, want := sel.Anchor, doctree.ElementPoint(para, 0); got != want {
					t.Errorf("anchor = %v, want %v", got, want)
				}
				if got, want := sel.Focus, endOf(e, para); got != want {
					t.Errorf("focus = %v, want %v", got, want)
				}
			},
		},
	}

	for _, st := range steps {
		st.run(t)
		if got := doctreetest.DocShape(e); got != st.shape {
			t.Fatalf("%s: shape = %s, want %s", st.name, got, st.shape)
		}
		assertValidSelection(t, e)
		if st.check != nil {
			st.check(t)
		}
	}
}
