// Package ratelimit bounds the rate of sensitive operations per caller
// key within a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Store is the pluggable counter behind throttling: key -> {count,
// windowStart}. The in-memory store serves single-instance deployments;
// multi-instance deployments need the shared store so each instance does
// not grant its own quota.

type Store interface {
	// Allow counts a request against key's current window and reports
	// whether it is within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
