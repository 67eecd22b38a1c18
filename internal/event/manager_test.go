package event

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderAndConsume(t *testing.T) {
	m := NewManager()
	var calls []string
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		calls = append(calls, "first:"+e.Data.(ContextData).ContextID)
		return false
	})
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		calls = append(calls, "second")
		return true
	})
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		calls = append(calls, "third")
		return false
	})

	m.Dispatch(TypeContentChanged, ContextData{ContextID: "a"})
	assert.Equal(t, []string{"first:a", "second"}, calls)
}

func TestDispatchWithoutHandlers(t *testing.T) {
	m := NewManager()
	assert.NotPanics(t, func() { m.Dispatch(TypeBufferLoaded, nil) })
}

func TestNestedDispatch(t *testing.T) {
	m := NewManager()
	var got []Type
	m.Subscribe(TypeBufferModified, func(e Event) bool {
		got = append(got, e.Type)
		m.Dispatch(TypeContentChanged, nil)
		return false
	})
	m.Subscribe(TypeContentChanged, func(e Event) bool {
		got = append(got, e.Type)
		return false
	})
	m.Dispatch(TypeBufferModified, nil)
	assert.Equal(t, []Type{TypeBufferModified, TypeContentChanged}, got)
}

func TestDebouncerCoalesces(t *testing.T) {
	var d Debouncer
	var count atomic.Int32
	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() { count.Add(1) })
	}
	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestDebouncerStop(t *testing.T) {
	var d Debouncer
	var count atomic.Int32
	d.Debounce(10*time.Millisecond, func() { count.Add(1) })
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestDebouncerLateFireKeepsNewerTimer(t *testing.T) {
	var d Debouncer
	var stale, fresh atomic.Int32

	d.mutex.Lock()
	d.scheduleLocked(time.Millisecond, func() { stale.Add(1) })
	// Let the first timer fire while its callback waits for the lock.
	time.Sleep(30 * time.Millisecond)
	d.scheduleLocked(time.Hour, func() { fresh.Add(1) })
	d.mutex.Unlock()
	time.Sleep(30 * time.Millisecond)

	d.mutex.Lock()
	pending := d.timer
	d.mutex.Unlock()
	assert.NotNil(t, pending, "newer timer still pending")
	assert.Equal(t, int32(0), stale.Load())

	d.Stop()
	assert.Equal(t, int32(0), fresh.Load())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "ContentChanged", TypeContentChanged.String())
	assert.Equal(t, "Unknown", Type(99).String())
}
