package charlimit

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/logging"
	"github.com/dshills/charlimit/internal/measure"
	"github.com/dshills/charlimit/internal/overflow"
	"github.com/dshills/charlimit/internal/segment"
)

// maxRescanDepth bounds rescans started from within a rescan's own
// notification.
const maxRescanDepth = 8

type limiter struct {
	ed       *doctree.Editor
	max      int
	strlen   measure.Func
	resolver *segment.Resolver
	notify   func(int)
	logger   logging.Logger

	mu         sync.Mutex
	lastLength int

	depth atomic.Int32
}

// Register starts enforcing maxCharacters on ed and returns a function that
// stops it. The editor must have doctree.KindOverflow registered.
//
// The document is evaluated once at registration, so one that is already
// over budget is marked and reported immediately.
func Register(ed *doctree.Editor, maxCharacters int, opts ...Option) (func(), error) {
	if !ed.HasNodes(doctree.KindOverflow) {
		return nil, ErrOverflowNotRegistered
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &limiter{
		ed:       ed,
		max:      maxCharacters,
		strlen:   o.strlen,
		resolver: segment.NewResolver(o.segmenter, o.strlen),
		notify:   o.onRemaining,
		logger:   o.logger,
	}

	l.evaluate()
	unlisten := ed.RegisterUpdateListener(l.onUpdate)
	uncommand := ed.RegisterCommand(doctree.DeleteCharacterCommand, l.onDeleteCharacter, doctree.PriorityLow)

	var once sync.Once
	return func() {
		once.Do(func() {
			unlisten()
			uncommand()
		})
	}, nil
}

func (l *limiter) onUpdate(ev doctree.UpdateEvent) {
	if ev.Composing || l.ed.IsComposing() || !ev.HasChanges() {
		return
	}
	l.evaluate()
}

// evaluate measures the document, reports the remaining budget and rescans
// when the text is over budget now or was on the previous measurement.
func (l *limiter) evaluate() {
	length := l.strlen(l.ed.TextContent())
	remaining := l.max - length

	l.mu.Lock()
	rescan := length > l.max || l.lastLength > l.max
	l.lastLength = length
	l.mu.Unlock()

	l.notify(remaining)
	if rescan {
		l.rescan(length)
	}
}

func (l *limiter) rescan(length int) {
	if l.depth.Load() >= maxRescanDepth {
		l.logger.Warn("overflow rescan depth exceeded", "depth", maxRescanDepth, "length", length)
		return
	}
	l.depth.Add(1)
	defer l.depth.Add(-1)

	err := l.ed.Update(func(tx *doctree.Tx) error {
		boundary := l.resolver.Resolve(tx.TextContent(), l.max)
		stats, err := overflow.Scan(tx, boundary)
		if err != nil {
			return err
		}
		if stats.Changed() {
			l.logger.Debug("overflow rescanned",
				"length", length, "max", l.max, "boundary", boundary, "stats", stats.String())
		}
		return nil
	}, doctree.WithTag(doctree.TagHistoryMerge))
	if err != nil {
		l.logger.Error("overflow rescan failed", "error", err)
	}
}
