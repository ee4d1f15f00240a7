package route

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-route-keeper/internal/config"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/service"
)

// HandlerFunc is the business logic behind a route. It returns a JSON object
// (a struct, a map or nil) or an error. Returning a slice is a programming
// error.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// Options tune how a route is dispatched.
type Options struct {
	// DisableTelemetry skips the usage counters for the route.
	DisableTelemetry bool

	// Tags are free-form labels, e.g. "access:apm".
	Tags []string
}

// Definition declares a single route.
type Definition struct {
	// Endpoint is "<METHOD> <path template>", e.g. "GET /internal/items/{id}".
	Endpoint string

	// Params is a prototype of the struct the raw request parameters are
	// decoded into, e.g. itemParams{}. Its top level fields are tagged
	// `json:"path"`, `json:"query"` and `json:"body"`. Nil means the route
	// takes no parameters besides "_inspect".
	Params any

	Options Options
	Handler HandlerFunc
}

// Repository maps route names to their definitions.
type Repository map[string]Definition

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

// Endpoint is a parsed [Definition.Endpoint].
type Endpoint struct {
	Method   string
	Pathname string
}

// ParseEndpoint splits "get /items/{id}" into its upper-cased method and
// its path template.
func ParseEndpoint(endpoint string) (Endpoint, error) {
	method, pathname, ok := strings.Cut(strings.TrimSpace(endpoint), " ")
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	method = strings.ToUpper(method)
	pathname = strings.TrimSpace(pathname)
	if _, ok := allowedMethods[method]; !ok {
		return Endpoint{}, fmt.Errorf("%w: unsupported method in %q", ErrInvalidEndpoint, endpoint)
	}
	if !strings.HasPrefix(pathname, "/") {
		return Endpoint{}, fmt.Errorf("%w: path must start with '/' in %q", ErrInvalidEndpoint, endpoint)
	}

	return Endpoint{Method: method, Pathname: pathname}, nil
}

// String returns the counter name of the endpoint, e.g.
// "GET /internal/items/{id}".
func (e Endpoint) String() string {
	return e.Method + " " + e.Pathname
}

// Resources are shared by all handlers.
type Resources struct {
	Logger       *logger.Logger
	Config       *config.StructuredConfig
	Services     *service.Services
	UsageCounter UsageCounter
	Version      string
}

// Request is everything a handler gets to see about one invocation.
type Request struct {
	HTTP     *http.Request
	Endpoint Endpoint

	// Params holds the decoded value of the route's params prototype, or nil.
	Params any

	// Inspect is the decoded "_inspect" query flag. It is false unless the
	// client asked for the debug trace.
	Inspect bool

	// Logger is request scoped and carries the trace id.
	Logger *logger.Logger

	Resources Resources
}

// ParamsAs returns the decoded params of req as T, or the zero value of T
// when the route declared a different type.
func ParamsAs[T any](req *Request) T {
	params, _ := req.Params.(T)
	return params
}
