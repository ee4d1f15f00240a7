package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")

	// ErrClientClosedRequest is returned when the server gave up on the
	// request because it saw the client disconnect (status 499).
	ErrClientClosedRequest = errors.New("client closed request")

	ErrUnexpectedResponse = errors.New("unexpected response")
)
