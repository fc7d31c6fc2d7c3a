package docio

import "errors"

// ErrInvalidDocument indicates the input is not a usable editor state.
var ErrInvalidDocument = errors.New("invalid document")
