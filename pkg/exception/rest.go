package exception

import "errors"

// REST errors
var (
	ErrUnexpectedStatus = errors.New("rest: unexpected status")
	ErrInvalidProxy     = errors.New("rest: invalid proxy url")
)
