package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a failure to reach a cache or store backend. Connect
// paths wrap it with Retryable.
var ErrNetwork = errors.New("backend unreachable")

// RetryableError flags a transient backend failure for RetryWithBackoff.
type RetryableError struct{ Err error }

// Retryable flags err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was flagged by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff; backoffBase is the first pause and
// doubles after each failure. Tests shorten it.
var (
	retryAttempts = 3
	backoffBase   = time.Second
)

// RetryWithBackoff calls fn until it succeeds, returns an error not flagged
// by Retryable, or runs out of attempts. The redis cache and the mongo store
// use it to ride out a backend that is still starting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	pause := backoffBase
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
			pause *= 2
		}
	}
}
