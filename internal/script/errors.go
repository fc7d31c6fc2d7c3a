package script

import "errors"

var (
	// ErrNoStrlen indicates the script defines no global strlen function.
	ErrNoStrlen = errors.New("script does not define function strlen")

	// ErrClosed indicates the measure was used after Close.
	ErrClosed = errors.New("script closed")

	// ErrBadResult indicates strlen returned something other than a
	// non-negative number.
	ErrBadResult = errors.New("strlen must return a non-negative number")
)
