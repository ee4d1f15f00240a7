package validators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// InspectParam is the universal query flag that asks for the request's
// debug trace to be attached to the response.
const InspectParam = "_inspect"

// RawParams holds the undecoded parameters of a request.
type RawParams struct {
	// Path holds the values of the route's path template placeholders.
	Path map[string]string

	// Query holds the URL query. Keys given once decode as scalars,
	// repeated keys as lists.
	Query url.Values

	// Body holds the decoded JSON body, or nil when the request had none.
	Body any
}

func (r RawParams) input() map[string]any {
	path := make(map[string]any, len(r.Path))
	for k, v := range r.Path {
		path[k] = v
	}

	query := make(map[string]any, len(r.Query))
	for k, values := range r.Query {
		switch len(values) {
		case 0:
		case 1:
			query[k] = values[0]
		default:
			query[k] = values
		}
	}

	in := map[string]any{
		"path":  path,
		"query": query,
	}
	if r.Body != nil {
		in["body"] = r.Body
	}
	return in
}

// ParamsValidator implements [ParamsDecoder] and [Validator] on top of
// mapstructure and go-playground/validator.
type ParamsValidator struct {
	validate *validator.Validate
}

// NewParamsValidator returns a validator that names fields after their
// `json` tags, so that messages read "path.id: is required".
func NewParamsValidator() *ParamsValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ParamsValidator{validate: v}
}

// Decode decodes raw into a new value of prototype's struct type and
// validates it. A nil prototype decodes to nil.
func (v *ParamsValidator) Decode(ctx context.Context, raw RawParams, prototype any) (any, error) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return nil, nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	out := reflect.New(t)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating params decoder: %w", err)
	}

	if err := decoder.Decode(raw.input()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeParams, err)
	}

	if err := v.Validate(ctx, out.Interface()); err != nil {
		return nil, err
	}

	return out.Elem().Interface(), nil
}

// Validate validates a struct and returns ValidationErrors if invalid. When
// fields are given only those are checked; they are named by Go field path
// relative to obj, e.g. "Body.Name".
func (v *ParamsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	return formatValidationErrors(err, reflect.Indirect(reflect.ValueOf(obj)).Type().Name())
}

// DecodeInspectFlag reads the universal "_inspect" flag from query. The
// value must be a JSON boolean; an absent flag means false.
func DecodeInspectFlag(query url.Values) (bool, error) {
	values, ok := query[InspectParam]
	if !ok || len(values) == 0 {
		return false, nil
	}

	var flag bool
	if err := json.Unmarshal([]byte(values[0]), &flag); err != nil {
		return false, ValidationErrors{{
			Field:   "query." + InspectParam,
			Message: "must be a JSON boolean",
		}}
	}

	return flag, nil
}

// formatValidationErrors converts validator errors to ValidationErrors
func formatValidationErrors(err error, root string) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	validationErrors := make(ValidationErrors, 0, len(errs))
	for _, e := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldPath(e.Namespace(), root),
			Message: getErrorMessage(e),
		})
	}

	return validationErrors
}

// fieldPath drops the root struct name from a validator namespace:
// "itemParams.path.id" becomes "path.id". Anonymous structs have no root.
func fieldPath(namespace, root string) string {
	if root == "" {
		return namespace
	}
	return strings.TrimPrefix(namespace, root+".")
}

// getErrorMessage returns a human-readable error message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}
