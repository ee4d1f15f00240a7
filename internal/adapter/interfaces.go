// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a client for the route-keeper HTTP API.
//
// [ServerAdapter] decouples callers such as cmd/client from the transport.
// The HTTP implementation ([NewHTTPServerAdapter]) decodes the dispatcher's
// envelopes: success bodies with their optional "_inspect" trace, and error
// bodies of the form {"message", "attributes": {"_inspect"}}.
//
// Error statuses are mapped to the sentinel values in errors.go so that
// callers can use [errors.Is] (e.g. [ErrNotFound] for 404,
// [ErrClientClosedRequest] for 499). The full error body is available through
// [ResponseError].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// route-keeper server.
type ServerAdapter interface {
	// GetItem fetches one item. With withInspect the server's debug trace
	// of the request is returned alongside.
	GetItem(ctx context.Context, id string, withInspect bool) (models.Item, []inspect.Entry, error)

	// SearchItems fetches one page of items matching filter.
	SearchItems(ctx context.Context, filter models.ItemFilter, withInspect bool) (models.ItemPage, []inspect.Entry, error)

	// CreateItem stores a new item and returns it as the server saved it.
	CreateItem(ctx context.Context, name string, kind models.ItemKind) (models.Item, error)

	// Version returns the server's application version.
	Version(ctx context.Context) (string, error)
}
