package doctree

import (
	"errors"
	"testing"
)

func TestNodeNavigation(t *testing.T) {
	e, leaves := newDoc(t, "Hello", "World")

	e.Read(func(root *Node, _ *Selection) {
		if got := root.Text(); got != "HelloWorld" {
			t.Errorf("root text = %q", got)
		}
		if got := root.TextSize(); got != 10 {
			t.Errorf("root size = %d", got)
		}
		if root.FirstDescendant() != leaves[0] {
			t.Error("first descendant is not the first leaf")
		}
		if root.LastDescendant() != leaves[1] {
			t.Error("last descendant is not the last leaf")
		}
		p1 := leaves[0].Parent()
		if p1.NextSibling() != leaves[1].Parent() {
			t.Error("paragraph siblings wrong")
		}
		if p1.PrevSibling() != nil {
			t.Error("first paragraph has a previous sibling")
		}
		if !leaves[0].IsAttached() || !leaves[0].IsSimpleText() || !leaves[0].IsLeaf() {
			t.Error("leaf predicates wrong")
		}
		if !root.IsAncestorOf(leaves[1]) || leaves[1].IsAncestorOf(root) {
			t.Error("ancestry wrong")
		}
	})
}

func TestTextContentIncludesLineBreaks(t *testing.T) {
	e, leaves := newDoc(t, "ab")
	update(t, e, func(tx *Tx) error {
		br := tx.CreateLineBreak()
		if err := tx.InsertAfter(leaves[0], br); err != nil {
			return err
		}
		return tx.InsertAfter(br, tx.CreateTextMode("@cd", ModeToken))
	})

	if got := e.TextContent(); got != "ab\n@cd" {
		t.Errorf("TextContent = %q", got)
	}
	if got := docShape(e); got != `root(paragraph("ab" / "@cd"))` {
		t.Errorf("shape = %s", got)
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		before string
		after  string
	}{
		{"middle", "abcdefgh", 3, "abc", "defgh"},
		{"start", "abc", 0, "", "abc"},
		{"end", "abc", 3, "abc", ""},
		{"after astral", "a\U0001F600b", 3, "a\U0001F600", "b"},
		{"inside astral rounds down", "a\U0001F600b", 2, "a", "\U0001F600b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, leaves := newDoc(t, tt.text)
			update(t, e, func(tx *Tx) error {
				before, after, err := tx.SplitText(leaves[0], tt.offset)
				if err != nil {
					return err
				}
				if before.Text() != tt.before || after.Text() != tt.after {
					t.Errorf("split = %q + %q, want %q + %q", before.Text(), after.Text(), tt.before, tt.after)
				}
				if before.Text()+after.Text() != tt.text {
					t.Errorf("split lost content")
				}
				if before.NextSibling() != after {
					t.Errorf("pieces not adjacent")
				}
				return nil
			})
		})
	}
}

func TestSplitTextErrors(t *testing.T) {
	e, leaves := newDoc(t, "abc")
	err := e.Update(func(tx *Tx) error {
		_, _, err := tx.SplitText(leaves[0], 4)
		return err
	})
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("err = %v, want ErrOffsetOutOfRange", err)
	}

	err = e.Update(func(tx *Tx) error {
		_, _, err := tx.SplitText(leaves[0].Parent(), 1)
		return err
	})
	if !errors.Is(err, ErrNotText) {
		t.Errorf("err = %v, want ErrNotText", err)
	}
}

func TestMoveErrors(t *testing.T) {
	e, leaves := newDoc(t, "abc")
	para := leaves[0].Parent()

	tests := []struct {
		name string
		fn   func(tx *Tx) error
		want error
	}{
		{"append into leaf", func(tx *Tx) error { return tx.Append(leaves[0], tx.CreateText("x")) }, ErrNotElement},
		{"cycle", func(tx *Tx) error { return tx.Append(para, tx.Root()) }, ErrRoot},
		{"self ancestor", func(tx *Tx) error {
			inner := tx.CreateElement("quote")
			if err := tx.Append(para, inner); err != nil {
				return err
			}
			return tx.Append(inner, para)
		}, ErrCycle},
		{"remove root", func(tx *Tx) error { return tx.Remove(tx.Root()) }, ErrRoot},
		{"insert before detached", func(tx *Tx) error {
			return tx.InsertBefore(tx.CreateText("x"), tx.CreateText("y"))
		}, ErrDetached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Update(tt.fn)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if got := docShape(e); got != `root(paragraph("abc"))` {
				t.Errorf("failed update leaked changes: %s", got)
			}
		})
	}
}

func TestReplaceAndInsert(t *testing.T) {
	e, leaves := newDoc(t, "b")
	update(t, e, func(tx *Tx) error {
		if err := tx.InsertBefore(leaves[0], tx.CreateText("a")); err != nil {
			return err
		}
		if err := tx.InsertAfter(leaves[0], tx.CreateText("c")); err != nil {
			return err
		}
		return tx.Replace(leaves[0], tx.CreateText("B"))
	})

	if got := docShape(e); got != `root(paragraph("a" "B" "c"))` {
		t.Errorf("shape = %s", got)
	}
	if leaves[0].IsAttached() {
		t.Error("replaced node still attached")
	}
}

func TestCreateOverflowRequiresRegistration(t *testing.T) {
	e := New()
	if e.HasNodes(KindOverflow) {
		t.Fatal("overflow registered by default")
	}
	err := e.Update(func(tx *Tx) error {
		_, err := tx.CreateOverflow()
		return err
	})
	if !errors.Is(err, ErrNodeNotRegistered) {
		t.Errorf("err = %v, want ErrNodeNotRegistered", err)
	}
}
