// lrigschat/sources/session/manager.go
package session

import "sync"

// Manager maps browser session ids to their stores. Stores are created
// lazily on first use and never persisted.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// Store returns the store for a session id, creating it if needed.
func (m *Manager) Store(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[sessionID]
	if !ok {
		st = NewStore()
		m.stores[sessionID] = st
	}
	return st
}

// Drop discards a session's store.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
