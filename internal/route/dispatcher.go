package route

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MKhiriev/go-route-keeper/internal/inspect"
	"github.com/MKhiriev/go-route-keeper/internal/logger"
	"github.com/MKhiriev/go-route-keeper/internal/telemetry"
	"github.com/MKhiriev/go-route-keeper/internal/utils"
	"github.com/MKhiriev/go-route-keeper/internal/validators"
)

const (
	tracerName = "github.com/MKhiriev/go-route-keeper/internal/route"

	profileParam   = "_profile"
	profileInspect = "inspect"

	defaultPluginName = "apm"
)

// Profiler runs fn inside a CPU profile and returns where the profile was
// written. fn must be run exactly once, even when profiling fails.
type Profiler interface {
	Inspect(ctx context.Context, name string, fn func(context.Context)) (string, error)
}

// Dispatcher registers route definitions on a router and serves them.
type Dispatcher struct {
	router    chi.Router
	resources Resources

	decoder  validators.ParamsDecoder
	registry *inspect.Registry
	profiler Profiler
	statuses map[error]int
	newKey   func() string
	tracer   trace.Tracer
	plugin   string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithProfiler enables "_profile=inspect". Without a profiler the parameter
// is still stripped but the request runs unprofiled.
func WithProfiler(p Profiler) Option {
	return func(d *Dispatcher) {
		d.profiler = p
	}
}

// WithErrorStatuses maps sentinel errors returned by handlers to statuses.
func WithErrorStatuses(statuses map[error]int) Option {
	return func(d *Dispatcher) {
		d.statuses = statuses
	}
}

// WithRegistry sets the registry the request traces are indexed in.
func WithRegistry(r *inspect.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithKeyGenerator overrides the request key generator (UUIDv7 by default).
func WithKeyGenerator(fn func() string) Option {
	return func(d *Dispatcher) {
		d.newKey = fn
	}
}

// WithParamsDecoder overrides the params decoder.
func WithParamsDecoder(decoder validators.ParamsDecoder) Option {
	return func(d *Dispatcher) {
		d.decoder = decoder
	}
}

// WithTracerProvider sets the provider of the per-dispatch spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		d.tracer = tp.Tracer(tracerName)
	}
}

// WithPluginName sets the "plugin" attribute of every dispatch span.
func WithPluginName(name string) Option {
	return func(d *Dispatcher) {
		d.plugin = name
	}
}

// NewDispatcher returns a dispatcher registering routes on router.
func NewDispatcher(router chi.Router, resources Resources, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router:    router,
		resources: resources,
		decoder:   validators.NewParamsValidator(),
		registry:  inspect.NewRegistry(),
		newKey:    utils.NewUUIDGenerator().Generate,
		tracer:    otel.Tracer(tracerName),
		plugin:    defaultPluginName,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.resources.Logger == nil {
		d.resources.Logger = logger.Nop()
	}

	return d
}

// Register creates a dispatcher and registers every route of repository.
func Register(router chi.Router, repository Repository, resources Resources, opts ...Option) (*Dispatcher, error) {
	d := NewDispatcher(router, resources, opts...)
	if err := d.Register(repository); err != nil {
		return nil, err
	}
	return d, nil
}

// Register binds one handler per definition. Registering the same endpoint
// twice is a caller error and is not detected here.
func (d *Dispatcher) Register(repository Repository) error {
	names := make([]string, 0, len(repository))
	for name := range repository {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := repository[name]

		endpoint, err := ParseEndpoint(def.Endpoint)
		if err != nil {
			return fmt.Errorf("error registering route %s: %w", name, err)
		}
		if def.Handler == nil {
			return fmt.Errorf("error registering route %s: %w", name, ErrNilHandler)
		}

		d.router.Method(endpoint.Method, endpoint.Pathname, d.handler(endpoint, def))
		d.resources.Logger.Debug().
			Str("route", name).
			Str("endpoint", endpoint.String()).
			Msg("route registered")
	}

	return nil
}

// Registry returns the registry of in-flight request traces.
func (d *Dispatcher) Registry() *inspect.Registry {
	return d.registry
}

func (d *Dispatcher) handler(endpoint Endpoint, def Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get(profileParam) != profileInspect {
			d.dispatch(w, r, endpoint, def)
			return
		}

		r = withoutQueryParam(r, profileParam)
		if d.profiler == nil {
			d.dispatch(w, r, endpoint, def)
			return
		}

		log := logger.FromContextOr(r.Context(), d.resources.Logger)
		path, err := d.profiler.Inspect(r.Context(), endpoint.String(), func(ctx context.Context) {
			d.dispatch(w, r.WithContext(ctx), endpoint, def)
		})
		if err != nil {
			log.Warn().Err(err).Str("route", endpoint.String()).Msg("request ran without CPU profile")
			return
		}
		log.Info().Str("route", endpoint.String()).Str("profile", path).Msg("CPU profile written")
	}
}

// dispatch serves one request and writes its envelope.
func (d *Dispatcher) dispatch(w http.ResponseWriter, r *http.Request, endpoint Endpoint, def Definition) {
	ctx, span := d.tracer.Start(r.Context(), endpoint.String(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("plugin", d.plugin),
			attribute.String("http.route", endpoint.Pathname),
			attribute.String("http.request.method", endpoint.Method),
		),
	)
	defer span.End()
	if len(def.Options.Tags) > 0 {
		span.SetAttributes(attribute.StringSlice("route.tags", def.Options.Tags))
	}

	log := logger.FromContextOr(ctx, d.resources.Logger)

	env := d.serve(ctx, r.WithContext(ctx), log, endpoint, def)

	span.SetAttributes(attribute.Int("http.response.status_code", env.StatusCode))
	if env.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(env.StatusCode))
	}

	if _, err := utils.WriteJSON(w, env.Body, env.StatusCode); err != nil {
		log.Err(err).Str("route", endpoint.String()).Msg("error writing response")
	}
}

// serve runs the request lifecycle and returns the envelope to write. The
// request's trace is released before serve returns, whatever the outcome.
func (d *Dispatcher) serve(ctx context.Context, r *http.Request, log *logger.Logger, endpoint Endpoint, def Definition) Envelope {
	debugTrace, release, err := d.registry.Open(d.newKey())
	if err != nil {
		return d.fail(ctx, log, endpoint, def, err, nil)
	}
	defer release()

	ctx = inspect.NewContext(ctx, debugTrace)
	r = r.WithContext(ctx)

	params, inspectFlag, err := decodeParams(ctx, d.decoder, r, def.Params)
	if err != nil {
		return d.fail(ctx, log, endpoint, def, err, debugTrace)
	}
	if inspectFlag {
		debugTrace.Enable()
	}

	req := &Request{
		HTTP:      r,
		Endpoint:  endpoint,
		Params:    params,
		Inspect:   inspectFlag,
		Logger:    log,
		Resources: d.resources,
	}

	res, aborted := race(ctx, def.Handler, req)
	if aborted {
		log.Warn().Str("route", endpoint.String()).Msg("client closed request")
		trace.SpanFromContext(ctx).AddEvent("client closed request")
		return clientClosedRequest()
	}
	if res.err != nil {
		return d.fail(ctx, log, endpoint, def, res.err, debugTrace)
	}

	env, err := shapeSuccess(res.data, debugTrace, inspectFlag)
	if err != nil {
		return d.fail(ctx, log, endpoint, def, err, debugTrace)
	}

	recordUsage(ctx, d.resources.UsageCounter, endpoint, def.Options, telemetry.CounterSuccess)
	return env
}

// fail logs err once, counts it and shapes the error envelope.
func (d *Dispatcher) fail(ctx context.Context, log *logger.Logger, endpoint Endpoint, def Definition, err error, debugTrace *inspect.Trace) Envelope {
	classified := classify(err, d.statuses)

	event := log.Error().
		Err(err).
		Str("route", endpoint.String()).
		Str("kind", classified.Kind.String()).
		Int("status", classified.StatusCode)
	var panicErr *panicError
	if errors.As(err, &panicErr) {
		event = event.Str("stack", string(panicErr.stack))
	}
	event.Msg("route dispatch failed")

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", classified.Kind.String()))

	recordUsage(ctx, d.resources.UsageCounter, endpoint, def.Options, telemetry.CounterError)

	return shapeError(classified, debugTrace)
}

// withoutQueryParam returns a shallow copy of r whose URL no longer carries
// the query parameter key.
func withoutQueryParam(r *http.Request, key string) *http.Request {
	clone := r.Clone(r.Context())
	query := clone.URL.Query()
	query.Del(key)
	clone.URL.RawQuery = query.Encode()
	clone.RequestURI = clone.URL.RequestURI()
	return clone
}
