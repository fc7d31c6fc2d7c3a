package doctree

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/charlimit/internal/logging"
)

// UpdateEvent describes a committed update.
type UpdateEvent struct {
	// DirtyLeaves holds the leaves created, edited or moved by the update.
	DirtyLeaves map[NodeKey]struct{}
	// DirtyElements holds the elements whose children changed.
	DirtyElements map[NodeKey]struct{}
	// Tags are the tags the update ran with.
	Tags map[string]struct{}
	// Composing reports whether text composition was active at commit.
	Composing bool
}

// HasTag reports whether the update carried tag.
func (ev UpdateEvent) HasTag(tag string) bool {
	_, ok := ev.Tags[tag]
	return ok
}

// HasChanges reports whether any node was touched.
func (ev UpdateEvent) HasChanges() bool {
	return len(ev.DirtyLeaves) > 0 || len(ev.DirtyElements) > 0
}

// UpdateListener is called after every committed update.
type UpdateListener func(ev UpdateEvent)

// Editor owns a document tree and serializes all changes to it.
type Editor struct {
	id uuid.UUID

	mu       sync.RWMutex
	updating atomic.Bool
	st       *state

	registered map[Kind]bool
	composing  atomic.Bool

	lmu       sync.Mutex
	listeners []listenerEntry
	nextID    int

	commands *commandRegistry
	history  *history
	logger   logging.Logger
}

type listenerEntry struct {
	id int
	fn UpdateListener
}

// New creates an editor holding an empty root.
func New(opts ...Option) *Editor {
	e := &Editor{
		id: uuid.New(),
		st: newState(),
		registered: map[Kind]bool{
			KindElement:   true,
			KindText:      true,
			KindLineBreak: true,
		},
		commands: newCommandRegistry(),
		history:  newHistory(DefaultMaxHistory),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerBuiltinCommands()
	return e
}

// ID returns the editor instance ID.
func (e *Editor) ID() uuid.UUID { return e.id }

// HasNodes reports whether every kind is registered.
func (e *Editor) HasNodes(kinds ...Kind) bool {
	for _, k := range kinds {
		if !e.registered[k] {
			return false
		}
	}
	return true
}

// Update runs fn as one atomic transaction.
//
// If fn returns an error or panics, the tree and selection are restored to
// their state before the update and the error is returned. Otherwise the
// update is committed, recorded in the history according to its tags, and
// listeners are notified.
func (e *Editor) Update(fn func(tx *Tx) error, opts ...UpdateOption) (err error) {
	if !e.updating.CompareAndSwap(false, true) {
		return ErrUpdateInProgress
	}

	var cfg updateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e.mu.Lock()
	before := e.st.clone()
	tx := newTx(e, e.st)

	err = runTx(tx, fn)
	tx.closed = true
	if err != nil {
		e.st.restoreFrom(before)
		e.mu.Unlock()
		e.updating.Store(false)
		return err
	}

	tx.settleSelection()
	if tx.changed() {
		e.history.record(before, cfg.tags)
	}
	ev := UpdateEvent{
		DirtyLeaves:   tx.dirtyLeaves,
		DirtyElements: tx.dirtyElements,
		Tags:          cfg.tags,
		Composing:     e.composing.Load(),
	}
	e.mu.Unlock()
	e.updating.Store(false)

	e.notify(ev)
	return nil
}

func runTx(tx *Tx, fn func(tx *Tx) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update panicked: %v", r)
		}
	}()
	return fn(tx)
}

// Read runs fn with the current root under a read lock.
// fn must not start an update.
func (e *Editor) Read(fn func(root *Node, sel *Selection)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.st.root, e.st.sel.Clone())
}

// TextContent returns the document's plain text.
func (e *Editor) TextContent() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.textContent()
}

// Selection returns a copy of the current selection, or nil.
func (e *Editor) Selection() *Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.sel.Clone()
}

// IsComposing reports whether text composition is in progress.
func (e *Editor) IsComposing() bool { return e.composing.Load() }

// SetComposing starts or ends text composition. Ending composition commits
// an update that marks the caret's leaf dirty so listeners that skipped
// composing updates get a chance to run.
func (e *Editor) SetComposing(composing bool) error {
	was := e.composing.Swap(composing)
	if composing || !was {
		return nil
	}
	return e.Update(func(tx *Tx) error {
		if sel := tx.Selection(); sel != nil {
			if n := tx.NodeByKey(sel.Anchor.Key); n != nil {
				tx.MarkDirty(n)
				return nil
			}
		}
		tx.MarkDirty(tx.Root())
		return nil
	}, WithTag(TagCompositionEnd), WithTag(TagHistoryMerge))
}

// RegisterUpdateListener adds a listener and returns a function removing it.
func (e *Editor) RegisterUpdateListener(fn UpdateListener) func() {
	e.lmu.Lock()
	defer e.lmu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		e.lmu.Lock()
		defer e.lmu.Unlock()
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Editor) notify(ev UpdateEvent) {
	e.lmu.Lock()
	listeners := make([]listenerEntry, len(e.listeners))
	copy(listeners, e.listeners)
	e.lmu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

// Undo restores the state before the most recent recorded update.
func (e *Editor) Undo() error {
	return e.Update(func(tx *Tx) error {
		snap, ok := e.history.undo(tx.st.clone())
		if !ok {
			return ErrNothingToUndo
		}
		tx.restore(snap)
		return nil
	}, WithTag(TagHistoric))
}

// Redo reapplies the most recently undone update.
func (e *Editor) Redo() error {
	return e.Update(func(tx *Tx) error {
		snap, ok := e.history.redo(tx.st.clone())
		if !ok {
			return ErrNothingToRedo
		}
		tx.restore(snap)
		return nil
	}, WithTag(TagHistoric))
}

// CanUndo reports whether undo is available.
func (e *Editor) CanUndo() bool { return e.history.canUndo() }

// CanRedo reports whether redo is available.
func (e *Editor) CanRedo() bool { return e.history.canRedo() }

// UndoCount returns the number of undo entries.
func (e *Editor) UndoCount() int { return e.history.undoCount() }
