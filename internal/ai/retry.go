package ai

import (
	"math/rand"
	"time"
)

// Retry delays between gateway attempts. Generation is request-scoped,
// so the budget is short: one quick retry, one slower one.
var retryDelays = []time.Duration{
	500 * time.Millisecond,
	2 * time.Second,
}

const (
	// MaxAttempts is the total number of gateway attempts per request.
	MaxAttempts = 3

	// JitterFactor is the ±percentage of jitter applied to delays.
	JitterFactor = 0.2 // ±20%
)

// NextRetryDelay calculates the delay before the next attempt with jitter.
// attemptCount is 0-indexed (after first failed attempt, attemptCount = 0).
func NextRetryDelay(attemptCount int) time.Duration {
	if attemptCount < 0 {
		attemptCount = 0
	}
	if attemptCount >= len(retryDelays) {
		attemptCount = len(retryDelays) - 1
	}

	base := retryDelays[attemptCount]

	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange // -20% to +20%

	return time.Duration(float64(base) + jitter)
}
