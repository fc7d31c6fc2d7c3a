// Package overflow marks the part of a document beyond a character budget.
//
// Over-budget content is wrapped in overflow containers (doctree.KindOverflow)
// without changing any text. Scan walks the document once in document order
// and wraps, shrinks, merges or removes containers so that, once settled,
// exactly the text from the boundary offset onwards is covered.
//
// All operations run inside a doctree transaction and keep the selection
// valid: points are translated across splits, unwraps and merges, and
// re-anchored to a neighbouring node when their node leaves the tree.
package overflow
