package suggest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManagerAcquireReusesEngine(t *testing.T) {
	m := NewManager(stubFetch(nil, &atomic.Int64{}), Options{}, time.Minute)

	a := m.Acquire("session-1")
	b := m.Acquire("session-1")
	other := m.Acquire("session-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, m.Len())
}

func TestManagerSweepDisposesIdleEngines(t *testing.T) {
	var calls atomic.Int64
	m := NewManager(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{}, time.Minute)

	now := time.Now()
	m.now = func() time.Time { return now }

	stale := m.Acquire("stale")
	now = now.Add(2 * time.Minute)
	m.Acquire("active")

	m.Sweep(now)

	assert.Equal(t, 1, m.Len())

	// The disposed engine is inert.
	stale.Request(context.Background(), "ta", "")
	assert.Equal(t, int64(0), calls.Load())

	// Re-acquiring the stale session builds a fresh engine.
	rebuilt := m.Acquire("stale")
	assert.NotSame(t, stale, rebuilt)
}

func TestManagerSweepEvictsExpiredCacheEntries(t *testing.T) {
	var calls atomic.Int64
	m := NewManager(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{
		TTL: time.Minute,
	}, time.Hour)

	e := m.Acquire("session-1")
	e.Request(context.Background(), "ta", "")
	assert.Equal(t, 1, e.CacheLen())

	m.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, e.CacheLen())
}

func TestManagerClose(t *testing.T) {
	m := NewManager(stubFetch(nil, &atomic.Int64{}), Options{}, time.Minute)
	m.Acquire("a")
	m.Acquire("b")

	m.Close()
	assert.Equal(t, 0, m.Len())
}
