package portfolio

import (
	"sync"
	"time"
)

// Contact form submissions allowed per IP address.
const (
	contactLimit  = 5
	contactWindow = 10 * time.Minute
)

// Limiter rate-limits actions per IP address over a sliding window.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a Limiter that allows max actions per window. A nil
// now uses time.Now.
func NewLimiter(max int, window time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	l := &Limiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip := range l.attempts {
				l.pruneLocked(ip)
			}
			l.mu.Unlock()
		}
	}
}

// Stop ends the background cleanup.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record separately.
func (l *Limiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked(ip) < l.max
}

// Record registers an attempt for the given IP.
func (l *Limiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], l.now())
	l.mu.Unlock()
}

// pruneLocked drops attempts older than the window and returns how many remain.
func (l *Limiter) pruneLocked(ip string) int {
	cutoff := l.now().Add(-l.window)
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, ip)
		return 0
	}
	l.attempts[ip] = kept
	return len(kept)
}
