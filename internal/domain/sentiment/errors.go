package sentiment

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage indicates the caller submitted an empty or whitespace-only
// message. Mapped to HTTP 400 at the transport boundary.
var ErrEmptyMessage = errors.New("message cannot be empty")

// ErrNoScores indicates a classifier returned zero scores for a non-empty
// input. That breaks the classifier contract, so it is an internal failure,
// not a validation failure.
var ErrNoScores = errors.New("classifier returned no scores")

// UpstreamError wraps a failure from an external collaborator (classifier or
// record store). Mapped to HTTP 500 at the transport boundary.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError for the given operation.
func Upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
