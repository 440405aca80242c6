package common

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type RateLimiter struct {
	limiters []*rate.Limiter
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{}
	for _, restriction := range restrictions {
		rl.limiters = append(rl.limiters, restriction.limiter())
	}
	return rl
}

// Block until every restriction allows one more request,
// or until the context is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for _, limiter := range rl.limiters {
		if limiter.Tokens() < 1 {
			log.Debug().Msg("Request delayed by the rate limiter")
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
