package section

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesNewRegistersSections(t *testing.T) {
	p := NewPages(PagesConfig{})
	id, tr := p.New()

	require.NotEmpty(t, id)
	assert.Equal(t, []string{"Home", "About", "Projects", "Blogs", "Contact"}, tr.Sections())

	got, err := p.Get(id)
	require.NoError(t, err)
	assert.Same(t, tr, got)
}

func TestPagesAreIndependent(t *testing.T) {
	p := NewPages(PagesConfig{})
	_, a := p.New()
	_, b := p.New()

	require.NoError(t, a.Select("Blogs"))
	assert.Equal(t, "Blogs", a.Active())
	assert.Equal(t, "Home", b.Active())
}

func TestPagesUnknownID(t *testing.T) {
	p := NewPages(PagesConfig{})
	_, err := p.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestPagesExpire(t *testing.T) {
	clock := newFakeClock()
	p := NewPages(PagesConfig{TTL: time.Minute, Now: clock.Now})
	id, _ := p.New()
	idle, _ := p.New()

	clock.Advance(40 * time.Second)
	_, err := p.Get(id)
	require.NoError(t, err, "get refreshes the idle timer")

	clock.Advance(40 * time.Second)
	assert.Equal(t, 1, p.Sweep())
	assert.Equal(t, 1, p.Len())

	_, err = p.Get(idle)
	assert.ErrorIs(t, err, ErrUnknownPage)

	clock.Advance(2 * time.Minute)
	_, err = p.Get(id)
	assert.ErrorIs(t, err, ErrUnknownPage)
	assert.Equal(t, 0, p.Len())
}

func TestPagesSuppressWindowAndHook(t *testing.T) {
	clock := newFakeClock()
	created := 0
	p := NewPages(PagesConfig{
		SuppressWindow: 5 * time.Second,
		Now:            clock.Now,
		OnNew:          func(*Tracker) { created++ },
	})
	_, tr := p.New()
	require.NoError(t, tr.Select("Contact"))

	clock.Advance(3 * time.Second)
	assert.False(t, tr.Observe("About", 1))
	clock.Advance(3 * time.Second)
	assert.True(t, tr.Observe("About", 1))
	assert.Equal(t, 1, created)
}

func TestPagesEvictsLeastRecentlySeen(t *testing.T) {
	clock := newFakeClock()
	p := NewPages(PagesConfig{MaxPages: 2, Now: clock.Now})

	first, _ := p.New()
	clock.Advance(time.Second)
	second, _ := p.New()
	clock.Advance(time.Second)
	_, err := p.Get(first)
	require.NoError(t, err)

	clock.Advance(time.Second)
	third, _ := p.New()
	assert.Equal(t, 2, p.Len())

	_, err = p.Get(second)
	assert.ErrorIs(t, err, ErrUnknownPage, "least recently seen page is evicted")
	_, err = p.Get(first)
	assert.NoError(t, err)
	_, err = p.Get(third)
	assert.NoError(t, err)
}

func TestPagesNoSuppression(t *testing.T) {
	clock := newFakeClock()
	p := NewPages(PagesConfig{SuppressWindow: NoSuppression, Now: clock.Now})
	_, tr := p.New()
	require.NoError(t, tr.Select("Contact"))

	assert.False(t, tr.Suppressed())
	assert.True(t, tr.Observe("About", 1))
}

func TestPagesDrop(t *testing.T) {
	p := NewPages(PagesConfig{})
	id, _ := p.New()
	p.Drop(id)
	_, err := p.Get(id)
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestJanitorStopsWithContext(t *testing.T) {
	p := NewPages(PagesConfig{TTL: time.Millisecond})
	p.New()
	ctx, cancel := context.WithCancel(context.Background())
	p.StartJanitor(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return p.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}
