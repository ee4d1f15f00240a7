package inspect

import (
	"fmt"
	"sync"
)

// Registry indexes the traces of in-flight requests by request key.
//
// Every key lives from [Registry.Open] until the release function returned by
// it is called; the dispatcher defers that call so the entry is removed on
// every exit path.
type Registry struct {
	mu     sync.Mutex
	traces map[string]*Trace
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{traces: make(map[string]*Trace)}
}

// Open creates and indexes a new trace for key. The returned release
// function removes it; calling release more than once is harmless.
//
// Open fails with [ErrKeyInUse] if key already belongs to an in-flight
// request.
func (r *Registry) Open(key string) (*Trace, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.traces[key]; ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrKeyInUse, key)
	}

	t := NewTrace(key)
	r.traces[key] = t

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.traces, key)
			r.mu.Unlock()
		})
	}

	return t, release, nil
}

// Get returns the trace of an in-flight request.
func (r *Registry) Get(key string) (*Trace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.traces[key]
	return t, ok
}

// Has reports whether key belongs to an in-flight request.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of in-flight requests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.traces)
}
