package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	// Stopping through Shutdown is not an error.
	RunServer() error

	// Shutdown gracefully stops the server, forcing it closed once ctx is
	// done.
	Shutdown(ctx context.Context) error
}
