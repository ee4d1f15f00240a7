package route

import (
	"context"
	"fmt"
	"runtime/debug"
)

// panicError is a recovered handler panic. The stack goes to the log only.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrHandlerPanic, e.value)
}

func (e *panicError) Unwrap() error {
	return ErrHandlerPanic
}

type result struct {
	data any
	err  error
}

// race runs h on its own goroutine and waits for either its result or the
// cancellation of ctx, whichever comes first. aborted is true in the latter
// case; the handler keeps running and its result is dropped.
func race(ctx context.Context, h HandlerFunc, req *Request) (res result, aborted bool) {
	if ctx.Err() != nil {
		return result{}, true
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &panicError{value: r, stack: debug.Stack()}}
			}
		}()

		data, err := h(ctx, req)
		done <- result{data: data, err: err}
	}()

	select {
	case res = <-done:
		return res, false
	case <-ctx.Done():
		return result{}, true
	}
}
