package find

import (
	"testing"
	"time"

	"github.com/bethropolis/textfinder/internal/config"
	"github.com/bethropolis/textfinder/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSessions(t *testing.T) {
	m := NewManager(ManagerOptions{Options: SearchOptions{CaseSensitive: true}})

	a := m.Open(newFakeHost("a"))
	b := m.OpenWithID("fixed", newFakeHost("b"))
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "fixed", b.ID())
	assert.Same(t, b, m.OpenWithID("fixed", newFakeHost("other")))
	assert.Len(t, m.Sessions(), 2)
	assert.Equal(t, SearchOptions{CaseSensitive: true}, a.Cache().Options)

	got, ok := m.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	m.Close(a.ID())
	_, ok = m.Get(a.ID())
	assert.False(t, ok)
	assert.Len(t, m.Sessions(), 1)
}

func TestManagerContentChangedRescansWithoutScroll(t *testing.T) {
	events := event.NewManager()
	m := NewManager(ManagerOptions{})
	m.Attach(events)

	host := newFakeHost("one")
	s := m.OpenWithID("ctx", host)
	s.SetSearchText("o")
	require.Len(t, s.Cache().Matches, 1)
	scrolls := host.scrollCount()

	host.buf.SetText("one two")
	events.Dispatch(event.TypeContentChanged, event.ContextData{ContextID: "ctx"})

	assert.Len(t, s.Cache().Matches, 2)
	assert.Equal(t, scrolls, host.scrollCount())

	// Unknown contexts are ignored.
	events.Dispatch(event.TypeContentChanged, event.ContextData{ContextID: "missing"})
}

func TestManagerActiveContextIsDebounced(t *testing.T) {
	events := event.NewManager()
	m := NewManager(ManagerOptions{Debounce: 20 * time.Millisecond})
	m.Attach(events)
	defer m.Stop()

	host := newFakeHost("x y x")
	s := m.OpenWithID("ctx", host)
	s.SetSearchText("x")
	scrolls := host.scrollCount()

	for i := 0; i < 5; i++ {
		events.Dispatch(event.TypeActiveContextChanged, event.ContextData{ContextID: "ctx"})
	}
	assert.Equal(t, scrolls, host.scrollCount(), "rescan waits for the debounce window")

	assert.Eventually(t, func() bool {
		return host.scrollCount() == scrolls+1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, scrolls+1, host.scrollCount(), "bursts collapse into one rescan")
}

func TestManagerContextClosed(t *testing.T) {
	events := event.NewManager()
	m := NewManager(ManagerOptions{})
	m.Attach(events)

	m.OpenWithID("ctx", newFakeHost(""))
	events.Dispatch(event.TypeContextClosed, event.ContextData{ContextID: "ctx"})
	_, ok := m.Get("ctx")
	assert.False(t, ok)
}

func TestManagerConfigure(t *testing.T) {
	m := NewManager(OptionsFromConfig(config.NewDefaultConfig().Search, nil))
	host := newFakeHost("Go go")
	s := m.Open(host)
	s.SetSearchText("go")
	require.Len(t, s.Cache().Matches, 2)

	cfg := config.NewDefaultConfig().Search
	cfg.CaseSensitive = true
	cfg.ClearOnHide = true
	m.Configure(cfg)

	assert.Equal(t, spans(3, 5), s.Cache().Matches)
	s.SetVisible(false, "")
	assert.Equal(t, "", s.Cache().Search)
}
