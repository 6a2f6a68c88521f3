package section

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestTracker(clock *fakeClock) *Tracker {
	t := NewTracker(WithClock(clock.Now))
	t.Register("About", 0.9)
	t.Register("Blogs", DefaultThreshold)
	return t
}

func TestObserveVisibleSectionBecomesActive(t *testing.T) {
	tests := []struct {
		name   string
		events []struct {
			section string
			ratio   float64
		}
		want string
	}{
		{
			name: "about visible",
			events: []struct {
				section string
				ratio   float64
			}{{"About", 1}, {"Blogs", 0}},
			want: "About",
		},
		{
			name: "blogs visible",
			events: []struct {
				section string
				ratio   float64
			}{{"About", 0}, {"Blogs", 1}},
			want: "Blogs",
		},
		{
			name: "below threshold ignored",
			events: []struct {
				section string
				ratio   float64
			}{{"About", 0.85}},
			want: "Home",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(newFakeClock())
			for _, ev := range tt.events {
				tr.Observe(ev.section, ev.ratio)
			}
			assert.Equal(t, tt.want, tr.Active())
		})
	}
}

func TestObserveReportsChange(t *testing.T) {
	tr := newTestTracker(newFakeClock())

	assert.True(t, tr.Observe("Blogs", 0.8))
	assert.False(t, tr.Observe("Blogs", 1), "same section again is not a change")
	assert.False(t, tr.Observe("Unknown", 1))
	assert.Equal(t, "Blogs", tr.Active())
}

func TestThresholdIsInclusive(t *testing.T) {
	tr := newTestTracker(newFakeClock())
	assert.True(t, tr.Observe("About", 0.9))
	assert.Equal(t, "About", tr.Active())
}

func TestRegisterNormalizesThreshold(t *testing.T) {
	tr := NewTracker()
	tr.Register("Zero", 0)
	tr.Register("Big", 1.5)
	tr.Register("Half", 0.5)

	th, ok := tr.Threshold("Zero")
	require.True(t, ok)
	assert.Equal(t, DefaultThreshold, th)
	th, _ = tr.Threshold("Big")
	assert.Equal(t, DefaultThreshold, th)
	th, _ = tr.Threshold("Half")
	assert.Equal(t, 0.5, th)

	tr.Register("Half", 0.2)
	th, _ = tr.Threshold("Half")
	assert.Equal(t, 0.2, th)
	assert.Equal(t, []string{"Zero", "Big", "Half"}, tr.Sections())
}

func TestZeroWindowDoesNotSuppress(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(WithClock(clock.Now), WithSuppressWindow(0))
	tr.RegisterAll(Defaults())

	require.NoError(t, tr.Select("Blogs"))
	assert.False(t, tr.Suppressed())
	assert.True(t, tr.Observe("About", 1))
	assert.Equal(t, "About", tr.Active())
}

func TestSelectSuppressesObservation(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	require.NoError(t, tr.Select("Blogs"))
	assert.Equal(t, "Blogs", tr.Active())
	assert.True(t, tr.Suppressed())

	// smooth scroll passes over About
	assert.False(t, tr.Observe("About", 1))
	clock.Advance(DefaultSuppressWindow)
	assert.False(t, tr.Observe("About", 1), "window boundary is still suppressed")
	assert.Equal(t, "Blogs", tr.Active())

	clock.Advance(time.Millisecond)
	assert.False(t, tr.Suppressed())
	assert.True(t, tr.Observe("About", 1))
	assert.Equal(t, "About", tr.Active())
}

func TestSelectUnknownSection(t *testing.T) {
	tr := newTestTracker(newFakeClock())
	err := tr.Select("Nope")
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Equal(t, "Home", tr.Active())
	assert.False(t, tr.Suppressed())
}

func TestNotSuppressedBeforeFirstSelect(t *testing.T) {
	tr := newTestTracker(newFakeClock())
	assert.False(t, tr.Suppressed())
}

func TestUnregisterStopsObservation(t *testing.T) {
	tr := newTestTracker(newFakeClock())
	require.True(t, tr.Observe("About", 1))

	tr.Unregister("About")
	assert.Equal(t, "About", tr.Active())
	assert.False(t, tr.Observe("About", 1))
	assert.ErrorIs(t, tr.Select("About"), ErrUnknownSection)
	assert.Equal(t, []string{"Blogs"}, tr.Sections())

	tr.Unregister("About")
}

func TestOnChange(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)
	var got []string
	tr.OnChange(func(name string) { got = append(got, name) })

	tr.Observe("About", 1)
	tr.Observe("About", 1)
	require.NoError(t, tr.Select("Blogs"))
	require.NoError(t, tr.Select("Blogs"))
	clock.Advance(2 * time.Second)
	tr.Observe("About", 1)

	assert.Equal(t, []string{"About", "Blogs", "About"}, got)
}

func TestAtMostOneActiveUnderRandomScroll(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(WithClock(clock.Now))
	secs := Defaults()
	tr.RegisterAll(secs)
	names := make(map[string]bool)
	for _, s := range secs {
		names[s.Name] = true
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		s := secs[rng.Intn(len(secs))]
		if rng.Intn(20) == 0 {
			require.NoError(t, tr.Select(s.Name))
		} else {
			tr.Observe(s.Name, rng.Float64())
		}
		clock.Advance(time.Duration(rng.Intn(300)) * time.Millisecond)

		active := tr.Active()
		assert.True(t, names[active], "active %q is not a registered section", active)
	}
}

func TestConcurrentObserve(t *testing.T) {
	tr := NewTracker()
	tr.RegisterAll(Defaults())

	var wg sync.WaitGroup
	for _, s := range Defaults() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr.Observe(name, 1)
				_ = tr.Active()
			}
		}(s.Name)
	}
	wg.Wait()
	assert.Contains(t, []string{"Home", "About", "Projects", "Blogs", "Contact"}, tr.Active())
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "about", Section{Name: "About"}.ID())
	assert.Equal(t, "#side-projects", Section{Name: "Side Projects"}.Href())
}
