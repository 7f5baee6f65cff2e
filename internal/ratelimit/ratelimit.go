// Package ratelimit provides the request pacing used for all Discogs API
// calls: a hard one-request-per-window ceiling plus a precautionary pause
// when the server reports its remaining quota is nearly exhausted.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default pacing for the Discogs API. The documented limit is 60 requests
// per minute for authenticated clients; one per second stays under it.
const (
	DefaultInterval       = time.Second
	DefaultQuotaThreshold = 5
	DefaultQuotaPause     = 10 * time.Second
)

// Limiter paces outbound requests. Wait blocks callers in submission
// order until the window admits the next request; Observe feeds back the
// server-reported remaining quota after each response and arms a pause
// when it falls below the threshold.
type Limiter struct {
	rl     *rate.Limiter
	logger *slog.Logger

	quotaThreshold int
	quotaPause     time.Duration

	mu         sync.Mutex
	pauseUntil time.Time
}

// New creates a Limiter admitting one request per interval.
func New(interval time.Duration, quotaThreshold int, quotaPause time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		rl:             rate.NewLimiter(rate.Every(interval), 1),
		logger:         logger,
		quotaThreshold: quotaThreshold,
		quotaPause:     quotaPause,
	}
}

// NewDefault creates a Limiter with the standard Discogs pacing.
func NewDefault(logger *slog.Logger) *Limiter {
	return New(DefaultInterval, DefaultQuotaThreshold, DefaultQuotaPause, logger)
}

// Wait blocks until the limiter admits the next request, or the context
// is canceled. An armed quota pause is served before the rate window.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	until := l.pauseUntil
	l.mu.Unlock()

	if d := time.Until(until); d > 0 {
		l.logger.Warn("quota low, pausing", slog.Duration("pause", d))
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.rl.Wait(ctx)
}

// Observe records the server-reported remaining call quota. When it drops
// below the threshold, all further requests are paused for quotaPause as
// a precaution against server-side throttling.
func (l *Limiter) Observe(remaining int) {
	if remaining >= l.quotaThreshold {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	until := time.Now().Add(l.quotaPause)
	if until.After(l.pauseUntil) {
		l.pauseUntil = until
		l.logger.Debug("armed quota pause",
			slog.Int("remaining", remaining),
			slog.Duration("pause", l.quotaPause))
	}
}
