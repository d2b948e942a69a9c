package session

import (
	"sync"

	"timegate/internal/domain"
)

// Registry implements domain.SessionRegistry in memory.
// This is a secondary adapter.
type Registry struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]domain.Session)}
}

// Add inserts or replaces a session. A replaced session keeps its position.
func (r *Registry) Add(s domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	r.byID[s.ID] = s
}

// Remove deletes a session and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns sessions in join order.
func (r *Registry) List() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// EvictNonExempt removes and returns every session without an exemption.
func (r *Registry) EvictNonExempt() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []domain.Session
	kept := r.order[:0]
	for _, id := range r.order {
		s := r.byID[id]
		if s.Exempt {
			kept = append(kept, id)
			continue
		}
		evicted = append(evicted, s)
		delete(r.byID, id)
	}
	r.order = kept
	return evicted
}
