package doctree

import (
	"sort"
	"sync"
)

// Command names a dispatchable editor command.
type Command string

// Built-in commands.
const (
	// DeleteCharacterCommand deletes one character. Payload: bool, true for
	// backward deletion.
	DeleteCharacterCommand Command = "DELETE_CHARACTER"
	// InsertTextCommand inserts text at the selection. Payload: string.
	InsertTextCommand Command = "INSERT_TEXT"
)

// Priority orders command handlers; higher priorities run first.
type Priority int

// Standard command priorities.
const (
	PriorityEditor Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// CommandHandler handles a command inside the dispatching update.
// Returning true stops propagation to lower-priority handlers.
type CommandHandler func(tx *Tx, payload any) bool

type commandEntry struct {
	id       int
	priority Priority
	handler  CommandHandler
}

type commandRegistry struct {
	mu       sync.RWMutex
	handlers map[Command][]commandEntry
	nextID   int
}

func newCommandRegistry() *commandRegistry {
	return &commandRegistry{handlers: make(map[Command][]commandEntry)}
}

func (r *commandRegistry) register(cmd Command, h CommandHandler, p Priority) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	list := append(r.handlers[cmd], commandEntry{id: id, priority: p, handler: h})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	r.handlers[cmd] = list

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.handlers[cmd]
		for i, e := range list {
			if e.id == id {
				r.handlers[cmd] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (r *commandRegistry) snapshot(cmd Command) []commandEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.handlers[cmd]
	out := make([]commandEntry, len(list))
	copy(out, list)
	return out
}

func (r *commandRegistry) count(cmd Command) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[cmd])
}

// RegisterCommand adds a handler for cmd and returns a function removing it.
// Handlers of equal priority run in registration order.
func (e *Editor) RegisterCommand(cmd Command, h CommandHandler, p Priority) func() {
	return e.commands.register(cmd, h, p)
}

// CommandHandlers returns the number of handlers registered for cmd.
func (e *Editor) CommandHandlers(cmd Command) int { return e.commands.count(cmd) }

// Dispatch runs cmd in a new update and reports whether a handler took it.
func (e *Editor) Dispatch(cmd Command, payload any, opts ...UpdateOption) (bool, error) {
	var handled bool
	err := e.Update(func(tx *Tx) error {
		handled = tx.Dispatch(cmd, payload)
		return nil
	}, opts...)
	return handled, err
}

// Dispatch runs cmd's handlers inside this transaction.
func (tx *Tx) Dispatch(cmd Command, payload any) bool {
	for _, entry := range tx.ed.commands.snapshot(cmd) {
		if entry.handler(tx, payload) {
			return true
		}
	}
	return false
}

func (e *Editor) registerBuiltinCommands() {
	e.RegisterCommand(DeleteCharacterCommand, func(tx *Tx, payload any) bool {
		backward, _ := payload.(bool)
		return tx.DeleteCharacter(backward)
	}, PriorityEditor)

	e.RegisterCommand(InsertTextCommand, func(tx *Tx, payload any) bool {
		text, ok := payload.(string)
		if !ok {
			return false
		}
		return tx.InsertText(text) == nil
	}, PriorityEditor)
}
