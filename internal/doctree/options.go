package doctree

import "github.com/dshills/charlimit/internal/logging"

// DefaultMaxHistory is the default number of undo entries kept.
const DefaultMaxHistory = 1000

// Option configures an Editor during creation.
type Option func(*Editor)

// WithNodes registers additional node kinds. Elements, text and line breaks
// are always registered; overflow containers must be registered explicitly.
func WithNodes(kinds ...Kind) Option {
	return func(e *Editor) {
		for _, k := range kinds {
			e.registered[k] = true
		}
	}
}

// WithMaxHistory sets the maximum number of undo entries.
func WithMaxHistory(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.history.maxEntries = max
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Editor) {
		e.logger = logging.OrNop(l)
	}
}

// Update tags.
const (
	// TagHistoryMerge merges the update into the previous history entry
	// instead of recording a new undo step.
	TagHistoryMerge = "history-merge"
	// TagHistoric marks updates produced by undo and redo.
	TagHistoric = "historic"
	// TagCompositionEnd marks the update committed when text composition ends.
	TagCompositionEnd = "composition-end"
)

// UpdateOption configures a single update.
type UpdateOption func(*updateConfig)

type updateConfig struct {
	tags map[string]struct{}
}

// WithTag tags the update. Tags are reported to listeners and consulted by
// the history.
func WithTag(tag string) UpdateOption {
	return func(c *updateConfig) {
		if c.tags == nil {
			c.tags = make(map[string]struct{})
		}
		c.tags[tag] = struct{}{}
	}
}
