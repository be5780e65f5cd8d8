package voting

import "errors"

var (
	ErrDuplicateVote  = errors.New("image already voted or vote in flight")
	ErrNothingToRetry = errors.New("no failed vote to retry")

	// errSuperseded marks a read that lost to a newer read or write.
	errSuperseded = errors.New("read superseded")
)
