package normalizer

import (
	"context"

	"golang.org/x/time/rate"
)

type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows requestsPerSecond calls per second; zero or less disables limiting.
func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)}
}

func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
