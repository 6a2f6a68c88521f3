package section

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pages keeps one Tracker per page load, keyed by an opaque page id.
// Trackers that have not been touched for longer than the TTL are evicted,
// and at most max trackers are kept: issuing one more evicts the least
// recently seen.
type Pages struct {
	mu       sync.Mutex
	entries  map[string]*pageEntry
	sections []Section
	ttl      time.Duration
	max      int
	now      func() time.Time
	opts     []TrackerOption
	onNew    func(*Tracker)
}

type pageEntry struct {
	tracker  *Tracker
	lastSeen time.Time
}

// PagesConfig configures Pages.
type PagesConfig struct {
	Sections       []Section        // sections registered on every new tracker (default Defaults())
	TTL            time.Duration    // idle lifetime of a page (default 30m)
	MaxPages       int              // live pages kept (default DefaultMaxPages)
	SuppressWindow time.Duration    // passed to every tracker (default DefaultSuppressWindow, NoSuppression disables)
	Now            func() time.Time // clock (default time.Now)
	OnNew          func(*Tracker)   // called for every tracker created by New
}

// DefaultMaxPages bounds the live pages of a Pages registry.
const DefaultMaxPages = 10000

// NewPages creates an empty page registry.
func NewPages(cfg PagesConfig) *Pages {
	if len(cfg.Sections) == 0 {
		cfg.Sections = Defaults()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	switch {
	case cfg.SuppressWindow == 0:
		cfg.SuppressWindow = DefaultSuppressWindow
	case cfg.SuppressWindow < 0:
		cfg.SuppressWindow = 0
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pages{
		entries:  make(map[string]*pageEntry),
		sections: cfg.Sections,
		ttl:      cfg.TTL,
		max:      cfg.MaxPages,
		now:      cfg.Now,
		opts:     []TrackerOption{WithSuppressWindow(cfg.SuppressWindow), WithClock(cfg.Now)},
		onNew:    cfg.OnNew,
	}
}

// New issues a fresh page id with every configured section registered.
func (p *Pages) New() (string, *Tracker) {
	t := NewTracker(p.opts...)
	t.RegisterAll(p.sections)
	if p.onNew != nil {
		p.onNew(t)
	}
	id := uuid.NewString()

	p.mu.Lock()
	for len(p.entries) >= p.max {
		p.evictOldestLocked()
	}
	p.entries[id] = &pageEntry{tracker: t, lastSeen: p.now()}
	p.mu.Unlock()
	return id, t
}

func (p *Pages) evictOldestLocked() {
	var oldest string
	var seen time.Time
	for id, e := range p.entries {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = id, e.lastSeen
		}
	}
	delete(p.entries, oldest)
}

// Get returns the tracker for id and refreshes its idle timer.
func (p *Pages) Get(id string) (*Tracker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return nil, ErrUnknownPage
	}
	now := p.now()
	if now.Sub(e.lastSeen) > p.ttl {
		delete(p.entries, id)
		return nil, ErrUnknownPage
	}
	e.lastSeen = now
	return e.tracker, nil
}

// Drop forgets a page, as when the page unloads.
func (p *Pages) Drop(id string) {
	p.mu.Lock()
	delete(p.entries, id)
	p.mu.Unlock()
}

// Len returns the number of live pages.
func (p *Pages) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Sections returns the sections registered on new pages.
func (p *Pages) Sections() []Section {
	return append([]Section(nil), p.sections...)
}

// Sweep evicts idle pages and returns how many were removed.
func (p *Pages) Sweep() int {
	cutoff := p.now().Add(-p.ttl)
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, e := range p.entries {
		if e.lastSeen.Before(cutoff) {
			delete(p.entries, id)
			n++
		}
	}
	return n
}

// StartJanitor sweeps every interval until ctx is done.
func (p *Pages) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.ttl
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Sweep()
			}
		}
	}()
}
