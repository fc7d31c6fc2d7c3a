package overflow

import "errors"

var (
	// ErrNotOverflow indicates a container operation got another node kind.
	ErrNotOverflow = errors.New("node is not an overflow container")

	// ErrNotSimpleText indicates a split was requested on a structured leaf.
	ErrNotSimpleText = errors.New("node is not simple text")

	// ErrNested indicates a wrap would nest one container inside another.
	ErrNested = errors.New("overflow containers cannot nest")
)
