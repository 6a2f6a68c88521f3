package section

import (
	"sync"
	"time"
)

// Tracker holds the active section of one page load.
//
// It has a single writer role (visibility observation and explicit
// selection) and any number of readers. All methods are safe for
// concurrent use.
type Tracker struct {
	mu         sync.Mutex
	thresholds map[string]float64
	order      []string
	active     string
	lastSelect time.Time
	window     time.Duration
	now        func() time.Time
	listeners  []func(name string)
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithSuppressWindow sets how long Observe is ignored after Select.
func WithSuppressWindow(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d >= 0 {
			t.window = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithInitial sets the active section before any observation.
func WithInitial(name string) TrackerOption {
	return func(t *Tracker) { t.active = name }
}

// NewTracker creates a Tracker. The initial active section is "Home".
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		thresholds: make(map[string]float64),
		active:     "Home",
		window:     DefaultSuppressWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register adds an observation request for name. Registering an existing
// name replaces its threshold.
func (t *Tracker) Register(name string, threshold float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.thresholds[name]; !ok {
		t.order = append(t.order, name)
	}
	t.thresholds[name] = normalizeThreshold(threshold)
}

// RegisterAll registers every section in secs.
func (t *Tracker) RegisterAll(secs []Section) {
	for _, s := range secs {
		t.Register(s.Name, s.Threshold)
	}
}

// Unregister removes the observation request for name. The active section
// is left as is.
func (t *Tracker) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.thresholds[name]; !ok {
		return
	}
	delete(t.thresholds, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Sections returns the registered section names in registration order.
func (t *Tracker) Sections() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Threshold returns the threshold registered for name.
func (t *Tracker) Threshold(name string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	th, ok := t.thresholds[name]
	return th, ok
}

// Observe records a visibility crossing: ratio is the visible fraction of
// the section's element. It reports whether the active section changed.
//
// When several sections satisfy their thresholds the last report wins.
func (t *Tracker) Observe(name string, ratio float64) bool {
	t.mu.Lock()
	threshold, ok := t.thresholds[name]
	if !ok || ratio < threshold || t.suppressedLocked() || t.active == name {
		t.mu.Unlock()
		return false
	}
	t.active = name
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, name)
	return true
}

// Select sets the active section directly, as after a nav click, and
// suppresses observation for the configured window.
func (t *Tracker) Select(name string) error {
	t.mu.Lock()
	if _, ok := t.thresholds[name]; !ok {
		t.mu.Unlock()
		return ErrUnknownSection
	}
	t.lastSelect = t.now()
	changed := t.active != name
	t.active = name
	listeners := t.listeners
	t.mu.Unlock()

	if changed {
		notify(listeners, name)
	}
	return nil
}

// Active returns the name of the active section.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Suppressed reports whether observation is currently being ignored.
func (t *Tracker) Suppressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suppressedLocked()
}

// OnChange registers fn to be called after every change of the active
// section. fn runs outside the tracker's lock.
func (t *Tracker) OnChange(fn func(name string)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// suppression lasts while now - lastSelect <= window; the zero lastSelect
// and a zero window never suppress.
func (t *Tracker) suppressedLocked() bool {
	if t.lastSelect.IsZero() || t.window == 0 {
		return false
	}
	return t.now().Sub(t.lastSelect) <= t.window
}

func notify(listeners []func(string), name string) {
	for _, fn := range listeners {
		fn(name)
	}
}
