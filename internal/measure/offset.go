package measure

import "unicode/utf8"

// ByteIndex converts a UTF-16 code unit offset into a byte index into text.
//
// Offsets past the end clamp to len(text). An offset that falls between the
// two halves of a surrogate pair rounds down to the start of that rune, so
// the result always lies on a rune boundary.
func ByteIndex(text string, units int) int {
	if units <= 0 {
		return 0
	}
	seen := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := seen + runeUnits(r)
		if next > units {
			return i
		}
		seen = next
		i += size
		if seen == units {
			return i
		}
	}
	return len(text)
}

// UnitIndex converts a byte index into text into a UTF-16 code unit offset.
// Byte indexes inside a rune round down to the start of that rune.
func UnitIndex(text string, byteIndex int) int {
	if byteIndex > len(text) {
		byteIndex = len(text)
	}
	units := 0
	for i := 0; i < byteIndex; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if i+size > byteIndex {
			break
		}
		units += runeUnits(r)
		i += size
	}
	return units
}

// SliceUnits returns the part of text between the UTF-16 offsets start and end.
func SliceUnits(text string, start, end int) string {
	if end < start {
		end = start
	}
	return text[ByteIndex(text, start):ByteIndex(text, end)]
}
