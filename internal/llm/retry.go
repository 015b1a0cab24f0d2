package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider repeats a call after transient failures, backing off
// exponentially between attempts.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p. At least one attempt is always made.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		schemaRetry bool
	)
	for attempt := 1; ; attempt++ {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}
		if attempt == r.cfg.MaxAttempts || !shouldRetry(err, &schemaRetry) {
			return nil, err
		}

		wait := r.cfg.delay(attempt, err)
		zap.L().Warn("llm: attempt failed, retrying",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.String("model", r.inner.ModelID()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// shouldRetry reports whether err may go away on its own. An answer that
// failed its schema is retried once only.
func shouldRetry(err error, schemaRetry *bool) bool {
	var (
		rejected  *ErrRequestRejected
		truncated *ErrMaxTokensExceeded
		invalid   *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &rejected), errors.As(err, &truncated):
		return false
	case errors.As(err, &invalid):
		if *schemaRetry {
			return false
		}
		*schemaRetry = true
	}
	return true
}

// delay is the wait before the attempt after attempt (1-based). A
// provider-supplied Retry-After wins; otherwise the exponential wait is
// capped at MaxWait with ±20% jitter.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(c.MaxWait))
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(wait, 0))
}
