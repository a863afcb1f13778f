// Package retry is a small policy combinator shared by all delivery
// operations.
package retry

import (
	"context"
	"time"
)

// Policy describes how often an operation is attempted. A nil Retryable
// treats every error as retryable.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// Do runs fn until it succeeds, a non-retryable error occurs, attempts
// are exhausted, or the context ends. It returns the last error.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var value T
	err := Do(ctx, p, func() error {
		var err error
		value, err = fn()
		return err
	})
	return value, err
}
