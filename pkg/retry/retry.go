// Package retry runs operations again after transient failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	defaultDelay    = 100 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

type Config struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
}

func (c *Config) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}

	if c.Backoff == nil {
		c.Backoff = ExponentialBackoff(defaultDelay)
	}

	if c.ShouldRetry == nil {
		c.ShouldRetry = retryUnlessPermanent
	}
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }

func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying whatever ShouldRetry says.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err}
}

func isPermanent(err error) bool {
	var pe permanentError
	return errors.As(err, &pe)
}

func retryUnlessPermanent(err error) bool {
	return !isPermanent(err)
}

// ExponentialBackoff doubles the delay on every attempt and adds
// jitter up to a half of it. The result is capped by five seconds.
func ExponentialBackoff(delay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		base := delay
		for i := 1; i < attempt && base > 0 && base < defaultMaxDelay; i++ {
			base <<= 1
		}
		base = min(base, defaultMaxDelay)
		if base <= 1 {
			return base
		}
		jitter := time.Duration(rand.Int64N(int64(base / 2)))
		return base + jitter
	}
}

func LinearBackoff(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, c Config, fn func() error) error {
	_, err := DoWithResult(ctx, c, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult calls fn until it succeeds, returns a non retryable
// error or the attempts are exhausted. The last error is returned.
func DoWithResult[T any](
	ctx context.Context, c Config, fn func() (T, error),
) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.normalize()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if isPermanent(err) || !c.ShouldRetry(err) {
			return zero, err
		}

		if attempt >= c.MaxAttempts {
			return zero, fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		wait := c.Backoff(attempt)
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			timer.Reset(wait)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
