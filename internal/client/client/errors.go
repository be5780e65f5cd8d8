package client

import "errors"

var (
	// ErrTransport reports that the service could not be reached.
	ErrTransport = errors.New("vote service unreachable")
	// ErrService reports a non-success response or an unusable response body.
	ErrService = errors.New("vote service error")
)
