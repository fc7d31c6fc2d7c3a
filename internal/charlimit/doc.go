// Package charlimit enforces a character budget on a doctree.Editor.
//
// Register attaches an update listener that measures the document after
// every content change, reports the remaining budget, and rescans the tree
// with overflow.Scan whenever the text is, or just was, over budget. The
// rescan runs as its own update tagged doctree.TagHistoryMerge so it never
// adds an undo step. A delete-character handler removes overflow containers
// and elements left empty by a deletion.
//
// The text itself is never modified.
package charlimit
