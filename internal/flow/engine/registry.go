package engine

import "sync/atomic"

// Registry holds the currently active Model behind an atomic pointer
// swap, so readers on the request path never block behind a reload
// and always observe either the entirely-old or entirely-new flow
// (§5, §9 "Process-wide flow state").
type Registry struct {
	current atomic.Pointer[Model]
}

// NewRegistry returns an empty registry; Current returns nil until
// Swap is called once.
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the currently active model, or nil if none has been
// loaded yet.
func (r *Registry) Current() *Model {
	return r.current.Load()
}

// Swap installs m as the active model and reports the previous
// model's id (empty string if none was loaded), so callers can decide
// whether the flow identity changed.
func (r *Registry) Swap(m *Model) (previousID string) {
	prev := r.current.Swap(m)
	if prev != nil {
		return prev.ID
	}
	return ""
}
