package inspect

import "context"

type traceCtxKey struct{}

// NewContext returns a copy of ctx carrying t.
func NewContext(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceCtxKey{}, t)
}

// FromContext returns the trace stored in ctx, or nil if there is none.
func FromContext(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceCtxKey{}).(*Trace)
	return t
}

// Record appends e to the trace stored in ctx.
//
// Callers may record unconditionally: without a trace, or with a trace whose
// request did not ask for inspection, the entry is dropped.
func Record(ctx context.Context, e Entry) {
	FromContext(ctx).Add(e)
}

// Enabled reports whether the request behind ctx asked for inspection.
// Collaborators use it to skip building expensive entries.
func Enabled(ctx context.Context) bool {
	return FromContext(ctx).Enabled()
}
