// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package inspect

import "errors"

// ErrKeyInUse is returned by [Registry.Open] when the request key is already
// held by another in-flight request.
var ErrKeyInUse = errors.New("request key is already in use")
