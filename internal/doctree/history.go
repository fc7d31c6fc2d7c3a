package doctree

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry describes one undo step.
type HistoryEntry struct {
	ID        uuid.UUID
	Timestamp time.Time
	// Merged counts updates folded into this entry by TagHistoryMerge.
	Merged int
}

type snapshotEntry struct {
	info  HistoryEntry
	state *state
}

// history keeps full-state snapshots for undo and redo.
type history struct {
	mu sync.Mutex

	undoStack []*snapshotEntry
	redoStack []*snapshotEntry

	maxEntries int
}

func newHistory(maxEntries int) *history {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxHistory
	}
	return &history{maxEntries: maxEntries}
}

// record stores the state before a committed update.
//
// Historic updates are not recorded. Merge-tagged updates fold into the
// newest entry: the snapshot taken before that entry still describes the
// state to return to, and the redo stack is kept.
func (h *history) record(before *state, tags map[string]struct{}) {
	if _, ok := tags[TagHistoric]; ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := tags[TagHistoryMerge]; ok {
		if n := len(h.undoStack); n > 0 {
			h.undoStack[n-1].info.Merged++
		}
		return
	}

	h.undoStack = append(h.undoStack, &snapshotEntry{
		info:  HistoryEntry{ID: uuid.New(), Timestamp: time.Now()},
		state: before,
	})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// undo pops the newest undo entry and pushes current onto the redo stack.
func (h *history) undo(current *state) (*state, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, false
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, &snapshotEntry{info: entry.info, state: current})
	return entry.state, true
}

// redo pops the newest redo entry and pushes current onto the undo stack.
func (h *history) redo(current *state) (*state, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, false
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, &snapshotEntry{info: entry.info, state: current})
	return entry.state, true
}

func (h *history) canUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

func (h *history) canRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

func (h *history) undoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

func (h *history) entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.undoStack))
	for i, e := range h.undoStack {
		out[i] = e.info
	}
	return out
}

// History returns the undo entries, oldest first.
func (e *Editor) History() []HistoryEntry { return e.history.entries() }
