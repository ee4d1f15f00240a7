// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package inspect collects per-request diagnostic entries, such as the SQL
// statements executed while serving a request, and hands them back to clients
// that opt into inspection with the "_inspect" query flag.
//
// A [Trace] is created by the route dispatcher for every request and carried
// in the request's [context.Context]; collaborators deep in the call stack
// append entries with [Record] without having to know whether inspection was
// requested. The [Registry] indexes traces of in-flight requests by request
// key and releases each of them exactly once.
package inspect
