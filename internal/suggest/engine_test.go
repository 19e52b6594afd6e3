package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetch returns a FetchFunc backed by a fixed result set and counts calls.
func stubFetch(results map[string][]Suggestion, calls *atomic.Int64) FetchFunc {
	return func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		calls.Add(1)
		return results[query], nil
	}
}

func TestRequestShortQueryDoesNotFetch(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"single rune", "t"},
		{"whitespace only", "   "},
		{"single rune padded", "  t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int64
			e := New(stubFetch(nil, &calls), Options{})

			e.Request(context.Background(), tt.query, "")

			state := e.State()
			assert.False(t, state.Visible)
			assert.Empty(t, state.Suggestions)
			assert.Equal(t, -1, state.SelectedIndex)
			assert.Equal(t, int64(0), calls.Load())
		})
	}
}

func TestRequestServesAndCachesResults(t *testing.T) {
	var calls atomic.Int64
	want := []Suggestion{{Text: "task", EntityType: "task", Count: 5}}
	e := New(stubFetch(map[string][]Suggestion{"ta": want}, &calls), Options{})

	e.Request(context.Background(), "ta", "workspace-1")
	first := e.State()
	require.Equal(t, want, first.Suggestions)
	assert.True(t, first.Visible)
	assert.Equal(t, "ta", first.Query)
	assert.Equal(t, -1, first.SelectedIndex)

	// Second identical request is served from cache: same state, no new fetch.
	e.Request(context.Background(), "ta", "workspace-1")
	assert.Equal(t, first, e.State())
	assert.Equal(t, int64(1), calls.Load())
}

func TestRequestNormalizesQueryForCache(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{})

	e.Request(context.Background(), "  TA ", "ws")
	e.Request(context.Background(), "ta", "ws")

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "ta", e.State().Query)
}

func TestRequestScopesCacheEntries(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{})

	e.Request(context.Background(), "ta", "ws-1")
	e.Request(context.Background(), "ta", "ws-2")

	// Different scopes must not share entries.
	assert.Equal(t, int64(2), calls.Load())
}

func TestRequestEmptyResultHidesPanel(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{}, &calls), Options{})

	e.Request(context.Background(), "zz", "")

	state := e.State()
	assert.False(t, state.Visible)
	assert.Empty(t, state.Suggestions)
}

func TestRequestFetchFailure(t *testing.T) {
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return nil, errors.New("network error")
	}
	e := New(fetch, Options{})

	e.Request(context.Background(), "ta", "")

	state := e.State()
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.Visible)
	assert.Equal(t, "network error", state.Err)

	// A following short query clears the error state.
	e.Request(context.Background(), "", "")
	assert.Empty(t, e.State().Err)
}

func TestRequestLastRequestWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		if query == "a" {
			close(started)
			<-release
			return []Suggestion{{Text: "stale", EntityType: "task", Count: 1}}, nil
		}
		return []Suggestion{{Text: "fresh", EntityType: "task", Count: 2}}, nil
	}
	e := New(fetch, Options{MinQueryLen: 1})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.Request(context.Background(), "a", "ws")
	}()

	<-started
	e.Request(context.Background(), "ab", "ws")
	close(release)
	wg.Wait()

	// The first request resolved after the second but must never be applied.
	state := e.State()
	require.Len(t, state.Suggestions, 1)
	assert.Equal(t, "fresh", state.Suggestions[0].Text)
	assert.Equal(t, "ab", state.Query)
}

func TestRequestCancelledFetchLeavesStateUntouched(t *testing.T) {
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	e := New(fetch, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Request(ctx, "ta", "")
	}()
	cancel()
	<-done

	state := e.State()
	assert.Empty(t, state.Err)
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.Visible)
}

func TestRequestDebounceCollapsesBursts(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"task": {{Text: "task"}}}, &calls), Options{
		Debounce: 50 * time.Millisecond,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.Request(context.Background(), "ta", "")
	}()

	// Wait until the first request is registered (debouncing) before
	// superseding it.
	for {
		e.mu.Lock()
		seq := e.seq
		e.mu.Unlock()
		if seq >= 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	e.Request(context.Background(), "task", "")
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "task", e.State().Query)
}

func TestCacheTTLExpiryTriggersRefetch(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{
		TTL: time.Minute,
	})

	now := time.Now()
	e.cache.now = func() time.Time { return now }

	e.Request(context.Background(), "ta", "")
	require.Equal(t, int64(1), calls.Load())

	// Just past the TTL the entry is a miss.
	now = now.Add(time.Minute + time.Second)
	e.Request(context.Background(), "ta", "")
	assert.Equal(t, int64(2), calls.Load())
}

func TestSelectionClamping(t *testing.T) {
	suggestions := []Suggestion{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return suggestions, nil
	}
	e := New(fetch, Options{})
	e.Request(context.Background(), "ab", "")

	// SelectPrevious before any SelectNext stays at "nothing selected".
	e.SelectPrevious()
	assert.Equal(t, -1, e.State().SelectedIndex)

	// N+5 SelectNext calls clamp at the last index.
	for i := 0; i < len(suggestions)+5; i++ {
		e.SelectNext()
	}
	assert.Equal(t, len(suggestions)-1, e.State().SelectedIndex)

	// SelectPrevious clamps at 0.
	for i := 0; i < len(suggestions)+5; i++ {
		e.SelectPrevious()
	}
	assert.Equal(t, 0, e.State().SelectedIndex)
}

func TestSelectNextOnEmptyList(t *testing.T) {
	e := New(stubFetch(nil, &atomic.Int64{}), Options{})
	e.SelectNext()
	assert.Equal(t, -1, e.State().SelectedIndex)
}

func TestConfirmSelection(t *testing.T) {
	want := Suggestion{Text: "task", EntityType: "task", Count: 5}
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return []Suggestion{want}, nil
	}
	e := New(fetch, Options{})
	e.Request(context.Background(), "ta", "workspace-1")

	got, ok := e.Confirm(0)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.False(t, e.State().Visible)
}

func TestConfirmCurrentSelection(t *testing.T) {
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return []Suggestion{{Text: "first"}, {Text: "second"}}, nil
	}
	e := New(fetch, Options{})
	e.Request(context.Background(), "fi", "")

	// No selection yet: confirm with -1 returns nothing.
	_, ok := e.Confirm(-1)
	assert.False(t, ok)

	e.Request(context.Background(), "fi", "")
	e.SelectNext()
	e.SelectNext()
	got, ok := e.Confirm(-1)
	require.True(t, ok)
	assert.Equal(t, "second", got.Text)
}

func TestConfirmOutOfRange(t *testing.T) {
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return []Suggestion{{Text: "only"}}, nil
	}
	e := New(fetch, Options{})
	e.Request(context.Background(), "on", "")

	_, ok := e.Confirm(3)
	assert.False(t, ok)
	assert.False(t, e.State().Visible)
}

func TestClearKeepsCache(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{})

	e.Request(context.Background(), "ta", "")
	e.Clear()

	state := e.State()
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.Visible)
	assert.Equal(t, -1, state.SelectedIndex)

	// Cache survived the clear.
	e.Request(context.Background(), "ta", "")
	assert.Equal(t, int64(1), calls.Load())
}

func TestInvalidateCache(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{})

	e.Request(context.Background(), "ta", "")
	e.InvalidateCache()
	e.Request(context.Background(), "ta", "")

	assert.Equal(t, int64(2), calls.Load())
}

func TestApplyDispatchesEvents(t *testing.T) {
	fetch := func(ctx context.Context, query, scope string) ([]Suggestion, error) {
		return []Suggestion{{Text: "a"}, {Text: "b"}}, nil
	}
	e := New(fetch, Options{})
	e.Request(context.Background(), "ab", "")

	e.Apply(EventNext)
	e.Apply(EventNext)
	assert.Equal(t, 1, e.State().SelectedIndex)

	e.Apply(EventPrev)
	assert.Equal(t, 0, e.State().SelectedIndex)

	e.Apply(EventDismiss)
	state := e.State()
	assert.False(t, state.Visible)
	assert.Empty(t, state.Suggestions)
}

func TestCloseMakesEngineInert(t *testing.T) {
	var calls atomic.Int64
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{})

	e.Close()
	e.Request(context.Background(), "ta", "")

	assert.Equal(t, int64(0), calls.Load())
	assert.False(t, e.State().Visible)
}

type countingObserver struct {
	hits, misses, errors atomic.Int64
}

func (o *countingObserver) CacheHit()    { o.hits.Add(1) }
func (o *countingObserver) CacheMiss()   { o.misses.Add(1) }
func (o *countingObserver) LookupError() { o.errors.Add(1) }

func TestObserverOutcomes(t *testing.T) {
	var calls atomic.Int64
	obs := &countingObserver{}
	e := New(stubFetch(map[string][]Suggestion{"ta": {{Text: "task"}}}, &calls), Options{
		Observer: obs,
	})

	e.Request(context.Background(), "ta", "")
	e.Request(context.Background(), "ta", "")

	assert.Equal(t, int64(1), obs.misses.Load())
	assert.Equal(t, int64(1), obs.hits.Load())
	assert.Equal(t, int64(0), obs.errors.Load())
}
