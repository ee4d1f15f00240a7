package route

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-route-keeper/internal/apperr"
	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/validators"
)

var (
	ErrInvalidEndpoint   = errors.New("invalid route endpoint")
	ErrNilHandler        = errors.New("route has no handler")
	ErrArrayResponse     = errors.New("return type cannot be an array")
	ErrNonObjectResponse = errors.New("return type must be an object")
	ErrHandlerPanic      = errors.New("route handler panicked")
	ErrInvalidBody       = errors.New("request body is not valid JSON")
)

// StatusClientClosedRequest is the non-standard status answered when the
// client went away before the handler settled.
const StatusClientClosedRequest = 499

const clientClosedRequestMessage = "Client closed request"

// Kind is the closed set of failures a dispatch can end with.
type Kind int

const (
	// KindHandler is any error returned by a handler.
	KindHandler Kind = iota

	// KindValidation means the request params did not decode.
	KindValidation

	// KindAborted means a collaborator reported the request as cancelled.
	KindAborted

	// KindProgramming is a broken handler contract: an array result,
	// a panic.
	KindProgramming
)

func (k Kind) String() string {
	switch k {
	case KindHandler:
		return "handler"
	case KindValidation:
		return "validation"
	case KindAborted:
		return "aborted"
	case KindProgramming:
		return "programming"
	default:
		return "unknown"
	}
}

// Error is a classified dispatch failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var programmingErrors = []error{
	ErrArrayResponse,
	ErrNonObjectResponse,
	ErrHandlerPanic,
	inspect.ErrKeyInUse,
}

// classify maps err onto the closed [Kind] set. statuses maps sentinel
// errors of the business layer to HTTP statuses.
func classify(err error, statuses map[error]int) *Error {
	var routeErr *Error
	if errors.As(err, &routeErr) {
		return routeErr
	}

	if validators.IsValidationError(err) || errors.Is(err, validators.ErrDecodeParams) || errors.Is(err, ErrInvalidBody) {
		return &Error{Kind: KindValidation, StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindAborted, StatusCode: StatusClientClosedRequest, Message: clientClosedRequestMessage, Err: err}
	}

	if appErr, ok := apperr.As(err); ok {
		status := apperr.StatusCode(err)
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := appErr.Message
		if message == "" {
			message = err.Error()
		}
		return &Error{Kind: KindHandler, StatusCode: status, Message: message, Err: err}
	}

	for target, status := range statuses {
		if errors.Is(err, target) {
			return &Error{Kind: KindHandler, StatusCode: status, Message: err.Error(), Err: err}
		}
	}

	for _, target := range programmingErrors {
		if errors.Is(err, target) {
			return &Error{Kind: KindProgramming, StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: err}
		}
	}

	return &Error{Kind: KindHandler, StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: err}
}
