package processor

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
)

// RateLimiter throttles Elasticsearch operations.
type RateLimiter struct {
	limiter *rate.Limiter
	log     logger.Logger
}

// NewRateLimiter creates a new rate limiter.
// rps: requests per second
// burst: maximum burst size
func NewRateLimiter(rps, burst int, log logger.Logger) *RateLimiter {
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = rps
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     log,
	}
}

// Wait blocks until the rate limit allows the operation.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.log.Warn("Rate limiter wait failed", logger.Error(err))
		return err
	}
	return nil
}

// Allow reports whether an operation may proceed without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetLimit updates the rate limit.
func (r *RateLimiter) SetLimit(rps int) {
	r.limiter.SetLimit(rate.Limit(rps))
	r.log.Info("Rate limit updated", logger.Int("new_rps", rps))
}
