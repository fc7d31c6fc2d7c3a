package measure

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Func measures the length of a text fragment.
// Implementations must be deterministic and free of side effects.
type Func func(text string) int

// Names of the built-in measures, as accepted by ByName.
const (
	NameUTF16      = "utf16"
	NameCodePoints = "codepoints"
	NameGraphemes  = "graphemes"
	NameBytes      = "bytes"
)

// UTF16 returns the number of UTF-16 code units needed to encode text.
// Invalid UTF-8 bytes count as one unit each (U+FFFD).
func UTF16(text string) int {
	n := 0
	for _, r := range text {
		n += runeUnits(r)
	}
	return n
}

// CodePoints returns the number of Unicode code points in text.
func CodePoints(text string) int {
	return utf8.RuneCountInString(text)
}

// Graphemes returns the number of extended grapheme clusters in text.
func Graphemes(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// Bytes returns the UTF-8 encoded length of text.
func Bytes(text string) int {
	return len(text)
}

// ByName returns the built-in measure registered under name.
// The empty name selects UTF16.
func ByName(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameUTF16, "utf-16":
		return UTF16, nil
	case NameCodePoints, "runes":
		return CodePoints, nil
	case NameGraphemes:
		return Graphemes, nil
	case NameBytes, "utf8", "utf-8":
		return Bytes, nil
	default:
		return nil, fmt.Errorf("unknown measure %q", name)
	}
}

// Names lists the canonical built-in measure names.
func Names() []string {
	return []string{NameUTF16, NameCodePoints, NameGraphemes, NameBytes}
}

func runeUnits(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
