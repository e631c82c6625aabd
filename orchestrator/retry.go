package orchestrator

import (
	"context"
	"math/rand"
	"time"

	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// Retry policy (spec §4.1: "repository clone and LLM calls retry with
// exponential backoff (base 1s, factor 2, jitter ±20%, max 3
// attempts); DynamoDB-style write conflicts retry similarly").
// retryBase is a var, not a const, so tests can shrink it to avoid
// real multi-second sleeps; production code never reassigns it.
var retryBase = 1 * time.Second

const (
	retryFactor = 2
	retryJitter = 0.2
	maxAttempts = 3
)

// retryWithBackoff runs fn up to maxAttempts times, sleeping an
// exponentially growing, jittered backoff between attempts. It stops
// retrying early if fn's error is not retryable (per vjerr.Error's
// taxonomy) or if ctx is cancelled. Grounded on the donor's
// llm-judge-scorer retry loop shape (eval/scorer_llm_judge.go): select
// on time.After(backoff) vs ctx.Done() between attempts.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	backoff := retryBase

	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts-1 {
			break
		}

		jittered := jitter(backoff)
		select {
		case <-time.After(jittered):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= retryFactor
	}
	return lastErr
}

func isRetryable(err error) bool {
	var vjErr *vjerr.Error
	if e, ok := err.(*vjerr.Error); ok {
		vjErr = e
	} else {
		return false
	}
	return vjErr.Retryable()
}

// jitter applies ±retryJitter proportional randomness to d.
func jitter(d time.Duration) time.Duration {
	spread := float64(d) * retryJitter
	offset := (rand.Float64()*2 - 1) * spread
	return d + time.Duration(offset)
}
