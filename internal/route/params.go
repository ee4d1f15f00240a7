package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-route-keeper/internal/validators"
)

// rawParams collects the path, query and body parameters of r.
func rawParams(r *http.Request) (validators.RawParams, error) {
	raw := validators.RawParams{
		Path:  make(map[string]string),
		Query: r.URL.Query(),
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			raw.Path[key] = rctx.URLParams.Values[i]
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return raw, nil
	}

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return raw, nil
		}
		return raw, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	raw.Body = body

	return raw, nil
}

// decodeParams decodes the "_inspect" flag and, when the route declares a
// params prototype, the route's own params.
func decodeParams(ctx context.Context, decoder validators.ParamsDecoder, r *http.Request, prototype any) (params any, inspectFlag bool, err error) {
	inspectFlag, err = validators.DecodeInspectFlag(r.URL.Query())
	if err != nil {
		return nil, false, err
	}

	if prototype == nil {
		return nil, inspectFlag, nil
	}

	raw, err := rawParams(r)
	if err != nil {
		return nil, inspectFlag, err
	}

	params, err = decoder.Decode(ctx, raw, prototype)
	if err != nil {
		return nil, inspectFlag, err
	}

	return params, inspectFlag, nil
}
