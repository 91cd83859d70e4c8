package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidPrice  = errors.New("price must be a finite, non-negative number")
	// ErrStorageNotConfigured is returned by the disabled repository when no
	// database credentials are present.
	ErrStorageNotConfigured = errors.New("order storage is not configured")
	ErrFeedClosed           = errors.New("change feed closed")
)

// SubmissionError means the store rejected an order create. Submissions are
// never retried.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	return "order submission failed: " + e.Reason
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// StreamError means the change subscription could not be opened or dropped.
// The view it feeds remains readable but may be stale.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("change stream %s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
