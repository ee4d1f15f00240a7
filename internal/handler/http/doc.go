// Package http implements the HTTP transport layer of the application.
//
// It wires the item and version routes into the route dispatcher and wraps
// them with the cross-cutting middleware: panic recovery, request tracing,
// access logging and response compression. The Prometheus registry is
// served on /metrics when configured.
package http
