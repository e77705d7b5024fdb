package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client address.
type Limiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*clientLimiter
	now      func() time.Time
}

// New creates a limiter allowing rps requests per second with the given
// burst for each client. A zero rps disables limiting.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

// Enabled reports whether requests are limited at all.
func (l *Limiter) Enabled() bool { return l != nil && l.rps > 0 }

// Allow consumes one token for ip.
func (l *Limiter) Allow(ip string) bool {
	if !l.Enabled() {
		return true
	}
	return l.visitor(ip).AllowN(l.now(), 1)
}

func (l *Limiter) visitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[ip] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup forgets clients not seen for longer than maxIdle.
func (l *Limiter) Cleanup(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > maxIdle {
			delete(l.visitors, ip)
		}
	}
}

// StartCleanupLoop runs Cleanup every interval until ctx is done.
func (l *Limiter) StartCleanupLoop(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(maxIdle)
		}
	}
}

// Visitors returns the number of tracked clients.
func (l *Limiter) Visitors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) CleanupAllVisitors() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}
