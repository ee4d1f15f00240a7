package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-route-keeper/internal/inspect"
)

// inspectField is the body field holding the debug trace.
const inspectField = "_inspect"

// Envelope is the shaped response of one dispatch.
type Envelope struct {
	StatusCode int
	Body       any
}

// ErrorBody is the JSON body of every failed dispatch.
type ErrorBody struct {
	Message    string           `json:"message"`
	Attributes *ErrorAttributes `json:"attributes,omitempty"`
}

type ErrorAttributes struct {
	Inspect []inspect.Entry `json:"_inspect"`
}

// clientClosedRequest is answered when the client disconnects before the
// handler settles. It carries no attributes.
func clientClosedRequest() Envelope {
	return Envelope{
		StatusCode: StatusClientClosedRequest,
		Body:       ErrorBody{Message: clientClosedRequestMessage},
	}
}

// shapeSuccess flattens data into a JSON object and attaches the trace
// entries under "_inspect" when withInspect is set.
func shapeSuccess(data any, trace *inspect.Trace, withInspect bool) (Envelope, error) {
	body, err := toObject(data)
	if err != nil {
		return Envelope{}, err
	}

	if withInspect {
		entries, err := json.Marshal(trace.Entries())
		if err != nil {
			return Envelope{}, fmt.Errorf("error encoding inspect entries: %w", err)
		}
		body[inspectField] = entries
	}

	return Envelope{StatusCode: http.StatusOK, Body: body}, nil
}

// shapeError builds {message, attributes: {_inspect}} for a classified error.
func shapeError(err *Error, trace *inspect.Trace) Envelope {
	switch err.Kind {
	case KindAborted:
		return Envelope{
			StatusCode: StatusClientClosedRequest,
			Body: ErrorBody{
				Message:    clientClosedRequestMessage,
				Attributes: &ErrorAttributes{Inspect: trace.Entries()},
			},
		}
	case KindValidation, KindHandler, KindProgramming:
		return Envelope{
			StatusCode: err.StatusCode,
			Body: ErrorBody{
				Message:    err.Message,
				Attributes: &ErrorAttributes{Inspect: trace.Entries()},
			},
		}
	default:
		return Envelope{
			StatusCode: http.StatusInternalServerError,
			Body: ErrorBody{
				Message:    err.Message,
				Attributes: &ErrorAttributes{Inspect: trace.Entries()},
			},
		}
	}
}

// toObject returns the top level fields of data's JSON encoding. A nil
// result is an empty object.
func toObject(data any) (map[string]json.RawMessage, error) {
	obj := make(map[string]json.RawMessage)
	if data == nil {
		return obj, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error encoding response: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	switch {
	case bytes.Equal(raw, []byte("null")):
		return obj, nil
	case len(raw) > 0 && raw[0] == '[':
		return nil, ErrArrayResponse
	case len(raw) == 0 || raw[0] != '{':
		return nil, fmt.Errorf("%w, got %T", ErrNonObjectResponse, data)
	}

	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("error encoding response: %w", err)
	}
	return obj, nil
}
