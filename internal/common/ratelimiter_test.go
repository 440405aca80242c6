package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 3, Duration: time.Hour}})
	for i := 0; i < 3; i++ {
		assert.NoError(t, rl.Wait(context.Background()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx))
}

func TestRateLimiterWithoutRestrictions(t *testing.T) {
	rl := NewRateLimiter(nil)
	for i := 0; i < 100; i++ {
		assert.NoError(t, rl.Wait(context.Background()))
	}
}

func TestRateLimiterEveryRestrictionApplies(t *testing.T) {
	rl := NewRateLimiter([]Restriction{
		{Requests: 10, Duration: time.Hour},
		{Requests: 1, Duration: time.Hour},
	})
	assert.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx))
}
