package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks failures of a networked cache backend. Callers treat
// these as cache misses.
var ErrBackend = errors.New("cache backend error")

// RetryableError marks a backend failure worth retrying, such as a refused
// connection while Redis starts up.
type RetryableError struct{ Err error }

// Retryable wraps err as a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy bounds how a backend retries. Delay doubles after every
// failed attempt.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry is used when a [RetryPolicy] is left zero.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: time.Second}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultRetry.Attempts
	}
	if p.Delay <= 0 {
		p.Delay = DefaultRetry.Delay
	}
	return p
}

// Do calls fn until it succeeds, returns an error not marked retryable, or
// the attempts run out. The last error is returned. Cancelling ctx stops
// the wait between attempts and returns ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	p = p.withDefaults()
	delay := p.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == p.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn under [DefaultRetry].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultRetry.Do(ctx, fn)
}
