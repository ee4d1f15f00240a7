// Package server wires and runs the application's transport servers.
//
// It runs the HTTP server carrying the dispatched routes and, when
// configured, a gRPC server exposing grpc.health.v1. Both stop gracefully on
// SIGTERM, SIGINT or SIGQUIT within the configured shutdown timeout.
package server
