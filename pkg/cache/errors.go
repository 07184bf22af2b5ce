package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a missing entry in operations that need one.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")
)

// retryableError marks a backend failure worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient for [Backoff.Retry]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err, or an error it wraps, was marked by
// [Retryable].
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Backoff is the retry policy of the remote backends.
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait before the second call, doubled afterwards
}

// DefaultBackoff is used when Redis or MongoDB is first contacted.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, fails with an error not marked
// [Retryable], or the attempts are used up; the last error is returned.
// It returns ctx.Err() when ctx ends while waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
