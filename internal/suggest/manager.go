package suggest

import (
	"sync"
	"time"
)

// managedEngine pairs an engine with its last access time.
type managedEngine struct {
	engine   *Engine
	lastSeen time.Time
}

// Manager owns one engine per client session. Engines are created on first
// use and disposed after sitting idle longer than the idle timeout, giving
// each session an explicit create/dispose lifecycle instead of ambient
// globals.
type Manager struct {
	mu      sync.Mutex
	fetch   FetchFunc
	opts    Options
	idle    time.Duration
	engines map[string]*managedEngine
	now     func() time.Time
}

// NewManager creates a manager that builds engines from fetch and opts and
// disposes them after idle without use.
func NewManager(fetch FetchFunc, opts Options, idle time.Duration) *Manager {
	return &Manager{
		fetch:   fetch,
		opts:    opts,
		idle:    idle,
		engines: make(map[string]*managedEngine),
		now:     time.Now,
	}
}

// Acquire returns the engine for the given session, creating it if needed,
// and refreshes its idle timer.
func (m *Manager) Acquire(sessionID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.engines[sessionID]
	if !ok {
		entry = &managedEngine{engine: New(m.fetch, m.opts)}
		m.engines[sessionID] = entry
	}
	entry.lastSeen = m.now()
	return entry.engine
}

// Len reports the number of live engines.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}

// Sweep closes engines idle past the timeout and evicts expired cache
// entries from the ones that remain.
func (m *Manager) Sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sessionID, entry := range m.engines {
		if m.idle > 0 && now.Sub(entry.lastSeen) > m.idle {
			entry.engine.Close()
			delete(m.engines, sessionID)
			continue
		}
		entry.engine.Sweep(now)
	}
}

// Close disposes every engine.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sessionID, entry := range m.engines {
		entry.engine.Close()
		delete(m.engines, sessionID)
	}
}
