package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	return r.retry(operationName, fn, nil, true)
}

// DoWithRecovery executes fn with a fixed delay between attempts, invoking
// reset before each retry. Used where a failed attempt leaves the shared
// browser state in need of a reset (e.g. a page reload).
func (r *RetryConfig) DoWithRecovery(operationName string, fn func() error, reset func()) error {
	return r.retry(operationName, fn, reset, false)
}

func (r *RetryConfig) retry(operationName string, fn func() error, reset func(), backoff bool) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			time.Sleep(delay)
			if backoff {
				delay *= 2
			}
			if reset != nil {
				reset()
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
