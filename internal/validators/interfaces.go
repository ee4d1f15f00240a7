// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators decodes and validates route parameters.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - ParamsDecoder: turns the raw path, query and body parameters of a
//     request into a typed params struct declared by the route.
//
// Decoding is weakly typed (query strings become ints, bools, durations and
// RFC 3339 times) and exact (keys that the params struct does not declare are
// dropped). Validation rules are expressed with `validate` struct tags.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}

// ParamsDecoder decodes raw request parameters into a fresh value of the
// prototype's struct type.
type ParamsDecoder interface {
	Decode(ctx context.Context, raw RawParams, prototype any) (any, error)
}
