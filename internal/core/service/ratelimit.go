// Package service provides domain services for deskshare.
package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a key may stay silent before its limiter is
// dropped. A bucket refills within burst/rate seconds, so a dropped limiter
// is indistinguishable from the fresh one that replaces it.
const limiterIdleTTL = time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterRegistry keeps one token-bucket limiter per key (client address).
// Idle keys are swept when new keys arrive, so the map is bounded by the
// number of addresses seen within limiterIdleTTL.
type RateLimiterRegistry struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perSec    int
	idleTTL   time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// NewRateLimiterRegistry creates a registry whose limiters allow perSecond
// events per second with an equal burst.
func NewRateLimiterRegistry(perSecond int) *RateLimiterRegistry {
	return &RateLimiterRegistry{
		limiters: make(map[string]*limiterEntry),
		perSec:   perSecond,
		idleTTL:  limiterIdleTTL,
		now:      time.Now,
	}
}

// Allow reports whether key may proceed now. A non-positive rate disables
// limiting.
func (r *RateLimiterRegistry) Allow(key string) bool {
	if r.perSec <= 0 {
		return true
	}

	r.mu.Lock()
	now := r.now()
	entry, ok := r.limiters[key]
	if !ok {
		r.sweepLocked(now)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.perSec), r.perSec)}
		r.limiters[key] = entry
	}
	entry.lastSeen = now
	r.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// sweepLocked drops limiters idle for at least idleTTL. It runs at most once
// per idleTTL.
func (r *RateLimiterRegistry) sweepLocked(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	for key, entry := range r.limiters {
		if now.Sub(entry.lastSeen) >= r.idleTTL {
			delete(r.limiters, key)
		}
	}
	r.nextSweep = now.Add(r.idleTTL)
}
