package segment

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Segmenter splits text into the clusters a Resolver may not divide.
type Segmenter interface {
	// Clusters yields the clusters of text in order. Concatenating the
	// yielded values reproduces text exactly.
	Clusters(text string) iter.Seq[string]

	// Name identifies the segmenter in configuration and logs.
	Name() string
}

// Segmentation names accepted by ByName.
const (
	NameGraphemes  = "grapheme"
	NameCodePoints = "codepoint"
)

// Graphemes segments text into extended grapheme clusters (UAX #29).
type Graphemes struct{}

// Clusters implements Segmenter.
func (Graphemes) Clusters(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		state := -1
		var cluster string
		for len(text) > 0 {
			cluster, text, _, state = uniseg.StepString(text, state)
			if !yield(cluster) {
				return
			}
		}
	}
}

// Name implements Segmenter.
func (Graphemes) Name() string { return NameGraphemes }

// CodePoints segments text into single code points.
type CodePoints struct{}

// Clusters implements Segmenter.
func (CodePoints) Clusters(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(text) > 0 {
			_, size := utf8.DecodeRuneInString(text)
			if !yield(text[:size]) {
				return
			}
			text = text[size:]
		}
	}
}

// Name implements Segmenter.
func (CodePoints) Name() string { return NameCodePoints }

// Default returns the grapheme segmenter.
func Default() Segmenter { return Graphemes{} }

// ByName returns the segmenter registered under name.
// The empty name selects the default.
func ByName(name string) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameGraphemes, "graphemes":
		return Graphemes{}, nil
	case NameCodePoints, "codepoints":
		return CodePoints{}, nil
	default:
		return nil, fmt.Errorf("unknown segmentation %q", name)
	}
}
