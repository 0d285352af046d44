// ABOUTME: Retry utilities for provider calls with exponential backoff
// ABOUTME: Shared by the OpenAI client for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

// Backoff returns exponential backoff with jitter for the given attempt.
// The base delay doubles each attempt, capped at 30 seconds, with random
// jitter of up to 25% in either direction.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// No jitter when the window rounds down to zero (tiny or zero base delay)
	half := int64(backoff) / 2
	if half <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}
