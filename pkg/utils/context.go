package utils

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 15 * time.Second

// WithTimeoutOr uses d when positive, DefaultTimeout otherwise.
func WithTimeoutOr(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// IsContextError checks if error is from context cancellation
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
