package charlimit

import "errors"

// ErrOverflowNotRegistered indicates the editor cannot create overflow
// containers. It is a configuration error.
var ErrOverflowNotRegistered = errors.New("charlimit: overflow node not registered on editor")
