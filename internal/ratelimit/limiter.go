package ratelimit

import (
	"context"
	"time"

	"github.com/clarityforge/site-backend/pkg/logging"
)

// Result describes the outcome of a limit check.
type Result struct {
	Allowed bool
	Count   int
	Max     int
	Reset   time.Time
}

// Limiter applies a fixed-window request limit per key. When a primary
// (shared) store is configured it is tried first; on any store error the
// limiter falls back to the in-process store rather than failing the
// request, so rate limiting degrades to per-instance tracking at worst.
type Limiter struct {
	primary  Store
	fallback Store
	max      int
	window   time.Duration
	logger   *logging.Logger
}

// NewLimiter creates a limiter allowing max requests per window per key.
// primary may be nil, in which case only the in-process store is used.
func NewLimiter(primary Store, max int, window time.Duration, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Limiter{
		primary:  primary,
		fallback: NewMemoryStore(),
		max:      max,
		window:   window,
		logger:   logger,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. Store errors are never surfaced to the caller.
func (l *Limiter) Allow(ctx context.Context, key string) Result {
	store := l.primary
	if store == nil {
		store = l.fallback
	}

	count, reset, err := store.Incr(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, using in-process fallback", "error", err, "key", key)
		count, reset, err = l.fallback.Incr(ctx, key, l.window)
		if err != nil {
			// The memory store cannot actually fail; allow rather than
			// block real users on a limiter defect.
			return Result{Allowed: true, Max: l.max}
		}
	}

	return Result{
		Allowed: count <= l.max,
		Count:   count,
		Max:     l.max,
		Reset:   reset,
	}
}
