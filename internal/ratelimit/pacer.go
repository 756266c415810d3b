// Package ratelimit paces outbound check cascades using the token bucket
// algorithm. The remote store pages tolerate roughly one request burst
// every couple of seconds per client; the pacer enforces that floor so the
// resolver itself stays a pure decision function with no timing side
// effects.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next check cascade may start. Implementations
// must be safe for concurrent use.
type Pacer interface {
	// Wait blocks until a check is allowed or ctx is done, in which case
	// it returns ctx's error.
	Wait(ctx context.Context) error
}

// TokenPacer is a Pacer backed by golang.org/x/time/rate: one token per
// minimum delay, burst of one, so the first check proceeds immediately and
// every subsequent check waits out the remainder of the delay.
type TokenPacer struct {
	limiter *rate.Limiter
}

// NewTokenPacer creates a pacer enforcing the given minimum delay between
// checks. A non-positive delay yields a pacer that never blocks.
func NewTokenPacer(minDelay time.Duration) *TokenPacer {
	if minDelay <= 0 {
		return &TokenPacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &TokenPacer{limiter: rate.NewLimiter(rate.Every(minDelay), 1)}
}

// Wait blocks until the next check is allowed.
func (p *TokenPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer never blocks. Used in tests.
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
