package doctree

import "errors"

// Errors returned by engine operations.
var (
	// ErrUpdateInProgress indicates an update was started while another one
	// was running.
	ErrUpdateInProgress = errors.New("update already in progress")

	// ErrTxClosed indicates a transaction was used after its update returned.
	ErrTxClosed = errors.New("transaction closed")

	// ErrNotElement indicates an operation that needs an element got a leaf.
	ErrNotElement = errors.New("node is not an element")

	// ErrNotText indicates an operation that needs a text leaf got another kind.
	ErrNotText = errors.New("node is not a text leaf")

	// ErrDetached indicates the node is not attached where the operation
	// requires it to be.
	ErrDetached = errors.New("node is detached")

	// ErrRoot indicates an operation that would move or remove the root.
	ErrRoot = errors.New("operation not allowed on root")

	// ErrCycle indicates a node would become its own ancestor.
	ErrCycle = errors.New("node cannot contain itself")

	// ErrOffsetOutOfRange indicates an offset is outside the node's range.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrInvalidSelection indicates a selection point does not reference an
	// attached node with a valid offset.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrNodeNotRegistered indicates a node kind was created that the editor
	// was not configured with.
	ErrNodeNotRegistered = errors.New("node kind not registered")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
