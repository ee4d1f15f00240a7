// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package route binds a table of typed route definitions to a chi router.
//
// Every registered route is served through the same lifecycle:
//
//  1. a request key is generated and a debug trace is opened for it in the
//     dispatcher's [inspect.Registry] (removed by a deferred release on every
//     exit path);
//  2. the universal "_inspect" query flag and the route's own params are
//     decoded and validated;
//  3. the handler runs in its own goroutine and races the client disconnect;
//     a disconnect answers 499 "Client closed request" immediately and leaves
//     the handler to finish on its own;
//  4. the handler's result or error is shaped into a JSON envelope;
//  5. a "success" or "error" usage counter named "<METHOD> <path>" is
//     incremented unless the route opted out of telemetry.
//
// A request carrying "_profile=inspect" is additionally run inside a CPU
// profile. The parameter is removed before any of the steps above see it.
package route
