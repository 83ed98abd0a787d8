package journal

import (
	"sync"
	"time"
)

// Registry tracks live sessions by id
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepIdle cancels and removes sessions idle since before cutoff.
// Sessions with a reply in flight are left alone. Returns the removed ids.
func (r *Registry) SweepIdle(cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, s := range r.sessions {
		if s.Composing() || !s.LastActivity().Before(cutoff) {
			continue
		}
		s.Cancel()
		delete(r.sessions, id)
		removed = append(removed, id)
	}
	return removed
}
