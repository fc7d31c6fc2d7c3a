package charlimit

import (
	"github.com/dshills/charlimit/internal/logging"
	"github.com/dshills/charlimit/internal/measure"
	"github.com/dshills/charlimit/internal/segment"
)

// Option configures a limiter.
type Option func(*options)

type options struct {
	strlen      measure.Func
	segmenter   segment.Segmenter
	onRemaining func(remaining int)
	logger      logging.Logger
}

func defaultOptions() options {
	return options{
		strlen:      measure.UTF16,
		segmenter:   segment.Default(),
		onRemaining: func(int) {},
		logger:      logging.Nop(),
	}
}

// WithStrlen sets the length measure. The default counts UTF-16 code units.
func WithStrlen(fn measure.Func) Option {
	return func(o *options) {
		if fn != nil {
			o.strlen = fn
		}
	}
}

// WithSegmenter sets the cluster iterator used to place the boundary.
func WithSegmenter(s segment.Segmenter) Option {
	return func(o *options) {
		if s != nil {
			o.segmenter = s
		}
	}
}

// WithRemainingCallback sets a function receiving the remaining budget,
// negative when the document is over. It is called on every content change
// and once at registration.
func WithRemainingCallback(fn func(remaining int)) Option {
	return func(o *options) {
		if fn != nil {
			o.onRemaining = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = logging.OrNop(l)
	}
}
