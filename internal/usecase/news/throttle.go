package news

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SourceGate enforces a minimum interval between calls to the same
// provider. Each provider gets its own limiter, so throttling one source
// never delays the others. A throttled source is skipped for that round
// rather than waited on.
type SourceGate struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

// NewSourceGate creates a gate with the given per-source minimum interval.
// A non-positive interval disables throttling.
func NewSourceGate(minInterval time.Duration) *SourceGate {
	return &SourceGate{
		interval: minInterval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a call to the named source may be dispatched now.
func (g *SourceGate) Allow(source string) bool {
	if g.interval <= 0 {
		return true
	}

	g.mu.Lock()
	limiter, ok := g.limiters[source]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limiters[source] = limiter
	}
	g.mu.Unlock()

	return limiter.Allow()
}
