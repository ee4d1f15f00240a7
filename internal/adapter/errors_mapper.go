package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/route"
)

// ResponseError is a non-2xx answer of the server.
type ResponseError struct {
	StatusCode int
	Message    string

	// Inspect holds the request's debug trace, if the server attached one.
	Inspect []inspect.Entry

	sentinel error
}

func (e *ResponseError) Error() string {
	if e.sentinel == nil {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.sentinel, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.sentinel
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	respErr := &ResponseError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*route.ErrorBody); ok && body.Message != "" {
		respErr.Message = body.Message
		if body.Attributes != nil {
			respErr.Inspect = body.Attributes.Inspect
		}
	} else {
		respErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	if respErr.Message == "" {
		respErr.Message = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		respErr.sentinel = ErrBadRequest
	case http.StatusNotFound:
		respErr.sentinel = ErrNotFound
	case http.StatusConflict:
		respErr.sentinel = ErrConflict
	case route.StatusClientClosedRequest:
		respErr.sentinel = ErrClientClosedRequest
	case http.StatusInternalServerError:
		respErr.sentinel = ErrInternalServerError
	}

	return respErr
}
