// Package measure provides pluggable text length functions.
//
// A Func maps a text fragment to an integer length. The limiter budget is
// expressed in whatever unit the configured Func counts; document offsets
// are always UTF-16 code units regardless of the chosen Func.
//
// # Units
//
//   - UTF16: UTF-16 code units (the default, matches browser string length)
//   - CodePoints: Unicode scalar values
//   - Graphemes: user-perceived characters (extended grapheme clusters)
//   - Bytes: UTF-8 bytes, useful when the limit mirrors a storage column
package measure
