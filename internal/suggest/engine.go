// Package suggest implements the search suggestion engine: a debounced,
// cached, cancellable lookup component with keyboard-driven selection.
//
// The engine never talks to storage or HTTP itself; the host supplies a
// FetchFunc and reads back State snapshots. Concurrent requests follow
// last-request-wins ordering: a superseded lookup's result is discarded on
// arrival and never applied to state.
package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Suggestion is one autocomplete candidate, immutable once returned by the
// fetch function.
type Suggestion struct {
	Text       string `json:"text"`
	EntityType string `json:"entity_type"`
	Count      int    `json:"count"`
}

// FetchFunc looks up suggestions for a normalized query within a scope.
// It may fail and should honor ctx cancellation.
type FetchFunc func(ctx context.Context, query, scope string) ([]Suggestion, error)

// State is a snapshot of the engine's session state. SelectedIndex is -1 when
// nothing is selected; it is otherwise a valid index into Suggestions.
type State struct {
	Query         string       `json:"query"`
	Suggestions   []Suggestion `json:"suggestions"`
	SelectedIndex int          `json:"selected_index"`
	Visible       bool         `json:"visible"`
	Err           string       `json:"error,omitempty"`
}

// Observer receives cache and lookup outcomes. Implementations must not call
// back into the engine.
type Observer interface {
	CacheHit()
	CacheMiss()
	LookupError()
}

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	// MinQueryLen is the minimum trimmed query length that triggers a lookup.
	MinQueryLen int
	// TTL is how long a cache entry may be served.
	TTL time.Duration
	// MaxEntries bounds the cache; insertion evicts expired entries first,
	// then oldest-first.
	MaxEntries int
	// Debounce is how long a request waits before fetching, so that rapid
	// successive requests collapse into one lookup.
	Debounce time.Duration
	// FetchTimeout bounds a single fetch call. Zero means no timeout beyond
	// the caller's context.
	FetchTimeout time.Duration
	// Observer, if set, is notified of cache and lookup outcomes.
	Observer Observer
}

const (
	defaultMinQueryLen = 2
	defaultTTL         = 5 * time.Minute
	defaultMaxEntries  = 128
)

func (o Options) withDefaults() Options {
	if o.MinQueryLen <= 0 {
		o.MinQueryLen = defaultMinQueryLen
	}
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = defaultMaxEntries
	}
	return o
}

// Engine turns a rapidly changing query string into a rate-limited, cached
// suggestion list with keyboard navigation. All methods are safe for
// concurrent use.
type Engine struct {
	mu     sync.Mutex
	fetch  FetchFunc
	opts   Options
	cache  *cache
	seq    uint64
	cancel context.CancelFunc
	state  State
	closed bool
}

// New creates an engine around the given fetch function.
func New(fetch FetchFunc, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		fetch: fetch,
		opts:  opts,
		cache: newCache(opts.TTL, opts.MaxEntries),
		state: State{SelectedIndex: -1},
	}
}

// Normalize lowercases and trims a raw query the way the engine keys its
// cache. Exposed so hosts can log or record the same form.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Request processes a query change. Queries shorter than MinQueryLen clear
// the suggestion list without a lookup. A fresh cache entry is served
// synchronously. Otherwise the previous in-flight lookup is superseded and a
// new fetch is issued; its result is applied only if no newer request has
// started since (last request wins).
//
// Fetch failures are recorded in State.Err and never returned to the caller.
// A cancelled or superseded fetch leaves state untouched.
func (e *Engine) Request(ctx context.Context, query, scope string) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < e.opts.MinQueryLen {
		e.mu.Lock()
		if !e.closed {
			e.supersedeLocked()
			e.state = State{Query: trimmed, SelectedIndex: -1}
		}
		e.mu.Unlock()
		return
	}

	normalized := Normalize(trimmed)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if suggestions, ok := e.cache.get(normalized, scope); ok {
		e.observeHit()
		e.supersedeLocked()
		e.applyLocked(normalized, suggestions)
		e.mu.Unlock()
		return
	}
	e.observeMiss()
	e.supersedeLocked()
	seq := e.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	if e.opts.Debounce > 0 {
		timer := time.NewTimer(e.opts.Debounce)
		select {
		case <-fetchCtx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	callCtx := fetchCtx
	if e.opts.FetchTimeout > 0 {
		var timeoutCancel context.CancelFunc
		callCtx, timeoutCancel = context.WithTimeout(fetchCtx, e.opts.FetchTimeout)
		defer timeoutCancel()
	}

	suggestions, err := e.fetch(callCtx, normalized, scope)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || seq != e.seq {
		// Superseded by a newer request; discard silently.
		return
	}
	e.cancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		e.observeError()
		e.state = State{Query: normalized, SelectedIndex: -1, Err: err.Error()}
		return
	}
	e.cache.put(normalized, scope, suggestions)
	e.applyLocked(normalized, suggestions)
}

// applyLocked installs a result set as the displayed state.
func (e *Engine) applyLocked(query string, suggestions []Suggestion) {
	e.state = State{
		Query:         query,
		Suggestions:   suggestions,
		SelectedIndex: -1,
		Visible:       len(suggestions) > 0,
	}
}

// supersedeLocked invalidates any outstanding lookup so its eventual result
// is discarded, and cancels its context as a best-effort transport abort.
func (e *Engine) supersedeLocked() {
	e.seq++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// SelectNext moves the selection down by one, clamped to the last entry.
func (e *Engine) SelectNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := len(e.state.Suggestions); n > 0 && e.state.SelectedIndex < n-1 {
		e.state.SelectedIndex++
	}
}

// SelectPrevious moves the selection up by one, clamped to the first entry.
// It does not return to the "nothing selected" state.
func (e *Engine) SelectPrevious() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.SelectedIndex > 0 {
		e.state.SelectedIndex--
	}
}

// Confirm returns the suggestion at the given index, or at the current
// selection when index is negative. The panel is hidden as a side effect.
// The second return is false when the index is out of range or the list is
// empty.
func (e *Engine) Confirm(index int) (Suggestion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Visible = false
	if index < 0 {
		index = e.state.SelectedIndex
	}
	if index < 0 || index >= len(e.state.Suggestions) {
		return Suggestion{}, false
	}
	return e.state.Suggestions[index], true
}

// Clear empties the suggestion list, hides the panel, and resets the
// selection. The cache is kept.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.supersedeLocked()
	e.state = State{SelectedIndex: -1}
}

// InvalidateCache drops every cached entry.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.invalidate()
}

// Sweep evicts cache entries that expired before now.
func (e *Engine) Sweep(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.sweep(now)
}

// CacheLen reports the number of cached entries, expired or not.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.len()
}

// State returns a snapshot of the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Close cancels any in-flight lookup and makes the engine inert. Further
// Request calls are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.supersedeLocked()
	e.state = State{SelectedIndex: -1}
}

func (e *Engine) observeHit() {
	if e.opts.Observer != nil {
		e.opts.Observer.CacheHit()
	}
}

func (e *Engine) observeMiss() {
	if e.opts.Observer != nil {
		e.opts.Observer.CacheMiss()
	}
}

func (e *Engine) observeError() {
	if e.opts.Observer != nil {
		e.opts.Observer.LookupError()
	}
}
