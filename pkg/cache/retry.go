package cache

import (
	"context"
	"errors"
	"time"
)

// Transient marks err as a transport failure worth retrying. Remote
// backends wrap connection errors and timeouts with it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Backoff retries transient failures, doubling the delay after each
// attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff makes three attempts, waiting one then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, fails with a non-transient error, runs
// out of attempts, or ctx ends.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
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
	return err
}
