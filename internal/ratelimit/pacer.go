package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum gap between two Places API requests.
const DefaultInterval = 100 * time.Millisecond

// Pacer spaces out calls to a rate limited upstream. The interval is measured
// start to start: the first Wait returns immediately, and every later one
// blocks until interval has passed since the previous call was released. A
// call that itself takes longer than interval is followed by no extra delay.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing one call per interval. A non-positive
// interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
