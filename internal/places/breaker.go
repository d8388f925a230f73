package places

import (
	"context"
	"time"

	"cafe-finder/internal/models"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Searcher is anything that can run a nearby search for one area.
type Searcher interface {
	Search(ctx context.Context, area models.SearchArea) ([]models.RawPlace, error)
}

// BreakerClient stops calling the Places API once it has failed threshold
// times in a row. While open, Search fails immediately with
// gobreaker.ErrOpenState; it never retries.
type BreakerClient struct {
	next Searcher
	cb   *gobreaker.CircuitBreaker[[]models.RawPlace]
}

// NewBreakerClient wraps next. The breaker stays open for cooldown before
// letting a single probe request through.
func NewBreakerClient(next Searcher, threshold uint32, cooldown time.Duration) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[[]models.RawPlace](gobreaker.Settings{
		Name:        "places-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &BreakerClient{next: next, cb: cb}
}

// WithBreaker puts a BreakerClient in front of next. A zero threshold leaves
// next unwrapped, so every area is still requested after failures.
func WithBreaker(next Searcher, threshold uint32, cooldown time.Duration) Searcher {
	if threshold == 0 {
		return next
	}
	return NewBreakerClient(next, threshold, cooldown)
}

// Search runs the wrapped search through the breaker.
func (b *BreakerClient) Search(ctx context.Context, area models.SearchArea) ([]models.RawPlace, error) {
	return b.cb.Execute(func() ([]models.RawPlace, error) {
		return b.next.Search(ctx, area)
	})
}

// State reports the breaker state, mostly for logs and tests.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}
