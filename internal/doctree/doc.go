// Package doctree provides the rich-text document engine the limiter runs on.
//
// The engine owns a single tree of nodes. Each node has exactly one parent
// and an ordered child list; parent and sibling lookups are non-owning.
// Nodes come in a closed set of kinds (see Kind): structural elements,
// text leaves, line-break leaves and overflow containers.
//
// # Transactions
//
// All mutation happens inside Editor.Update, which hands the update function
// a *Tx. The transaction is the only way to change the tree or the selection;
// Node itself is read-only. An update that returns an error is rolled back
// completely. Committed updates are reported to update listeners together
// with the sets of leaves and elements they touched.
//
// # Offsets
//
// Text lengths, selection offsets and split positions are measured in UTF-16
// code units. The document's plain text is the concatenation of all leaf text
// in document order.
//
// # Thread Safety
//
// An Editor has a single writer. Update, Dispatch, Undo and Redo return
// ErrUpdateInProgress if another update is running, including when called
// from inside an update function. Listeners run after the update commits and
// may start new updates.
package doctree
