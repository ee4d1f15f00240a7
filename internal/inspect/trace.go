package inspect

import (
	"strconv"
	"sync"
	"time"
)

// Status describes how a recorded operation finished.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry is a single diagnostic record attached to a request trace.
type Entry struct {
	// ID is the position of the entry inside its trace, assigned on Add
	// when left empty by the caller.
	ID string `json:"id"`

	// Name is a short human readable label, e.g. "get item by id".
	Name string `json:"name"`

	// Operation is the executed statement or call, e.g. the SQL text.
	Operation string `json:"operation,omitempty"`

	// Request holds the operation input (query arguments, payload).
	Request any `json:"request,omitempty"`

	// Response holds a summary of the operation output (row counts, hits).
	Response any `json:"response,omitempty"`

	// TookMs is the wall-clock duration of the operation in milliseconds.
	TookMs int64 `json:"took_ms"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Trace is the ordered list of entries collected while serving one request.
//
// Entries are accepted only after [Trace.Enable] was called, which the
// dispatcher does once the request's "_inspect" flag was decoded as true.
// A Trace is safe for concurrent use: a handler goroutine that lost the race
// against a client disconnect may still append after the response was sent.
type Trace struct {
	key string

	mu      sync.Mutex
	enabled bool
	entries []Entry
}

// NewTrace returns an empty, disabled trace for the given request key.
func NewTrace(key string) *Trace {
	return &Trace{key: key}
}

// Key returns the request key the trace was created for.
func (t *Trace) Key() string {
	if t == nil {
		return ""
	}
	return t.key
}

// Enable switches the trace into recording mode.
func (t *Trace) Enable() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.enabled = true
	t.mu.Unlock()
}

// Enabled reports whether entries are being recorded.
func (t *Trace) Enabled() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Add appends e to the trace. It is a no-op on a nil or disabled trace.
func (t *Trace) Add(e Entry) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}
	if e.ID == "" {
		e.ID = strconv.Itoa(len(t.entries) + 1)
	}
	if e.Status == "" {
		e.Status = StatusSuccess
	}
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the recorded entries. The result is never nil so
// that it always encodes as a JSON array.
func (t *Trace) Entries() []Entry {
	if t == nil {
		return []Entry{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded entries.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Since converts the time elapsed from start into the TookMs unit.
func Since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
