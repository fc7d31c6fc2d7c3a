package main

import (
	"strings"
	"testing"

	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/doctree/doctreetest"
	"github.com/dshills/charlimit/internal/overflow"
)

func TestRenderDocument(t *testing.T) {
	ed := doctreetest.NewEditor()
	doctreetest.Paragraphs(t, ed, "Hello World", "Second")
	doctreetest.Update(t, ed, func(tx *doctree.Tx) error {
		_, err := overflow.Scan(tx, 5)
		return err
	})

	got := newRenderer(false).Document(ed)
	want := "Hello[[ World]]\n[[Second]]"
	if got != want {
		t.Errorf("Document() = %q, want %q", got, want)
	}
}

func TestRenderStyled(t *testing.T) {
	ed := doctreetest.NewEditor()
	doctreetest.Paragraphs(t, ed, "Hello World")
	doctreetest.Update(t, ed, func(tx *doctree.Tx) error {
		_, err := overflow.Scan(tx, 5)
		return err
	})

	got := newRenderer(true).Document(ed)
	if strings.Contains(got, "[[") {
		t.Errorf("styled output uses brackets: %q", got)
	}
	if !strings.Contains(got, "World") {
		t.Errorf("styled output lost text: %q", got)
	}
}

func TestRenderRemaining(t *testing.T) {
	r := newRenderer(false)
	if got := r.Remaining(3, 10); got != "3/10 characters remaining" {
		t.Errorf("Remaining(3, 10) = %q", got)
	}
	if got := r.Remaining(-2, 10); got != "2 characters over the limit of 10" {
		t.Errorf("Remaining(-2, 10) = %q", got)
	}
}
