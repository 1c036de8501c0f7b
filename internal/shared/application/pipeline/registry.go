package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

var (
	// ErrNoHandler is returned when a request type has no registered handler.
	ErrNoHandler = errors.New("no handler registered for request")

	// ErrDuplicateHandler indicates a second handler was registered for a request type.
	ErrDuplicateHandler = errors.New("handler already registered for request")

	// ErrAmbiguousKind indicates a request type is marked both command and query.
	ErrAmbiguousKind = errors.New("request is marked both command and query")

	// ErrOrphanValidator indicates a validator was registered for a request type without handler.
	ErrOrphanValidator = errors.New("validator registered for request without handler")

	// ErrNotConcrete indicates an interface type was used as a request type.
	ErrNotConcrete = errors.New("request type must be concrete")

	// ErrSealed indicates a handler or validator was registered after the registry was sealed.
	ErrSealed = errors.New("registry already sealed")

	// ErrResponseShape is returned when a request is dispatched expecting the wrong outcome type.
	ErrResponseShape = errors.New("request dispatched with wrong response shape")
)

type handleFunc func(ctx context.Context, req application.Request) (application.Response, error)

type validateFunc func(ctx context.Context, req application.Request) ([]application.ValidationFailure, error)

type rejectFunc func(failures []application.ValidationFailure) application.Response

// route is everything the dispatcher knows about one request type.
type route struct {
	requestType  reflect.Type
	responseType reflect.Type
	kind         application.RequestKind
	handle       handleFunc
	reject       rejectFunc
	validators   []validateFunc
	invoke       invoker
}

// Registry collects handlers and validators at startup. It is sealed when a
// Dispatcher is built and is read-only afterwards: later registrations are
// recorded as errors and reported by the next Seal.
type Registry struct {
	routes     map[reflect.Type]*route
	validators map[reflect.Type][]validateFunc
	expected   []reflect.Type
	errs       []error
	sealed     bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		routes:     make(map[reflect.Type]*route),
		validators: make(map[reflect.Type][]validateFunc),
	}
}

// RegisterCommand registers the handler of a command returning a value.
func RegisterCommand[C application.Command, T any](r *Registry, h application.CommandHandler[C, T]) {
	r.add(typedRoute[C, T](application.KindCommand, h.Handle))
}

// RegisterVoidCommand registers the handler of a command returning no value.
func RegisterVoidCommand[C application.Command](r *Registry, h application.VoidCommandHandler[C]) {
	r.add(voidRoute[C](application.KindCommand, h.Handle))
}

// RegisterQuery registers the handler of a query returning a value.
func RegisterQuery[Q application.Query, T any](r *Registry, h application.QueryHandler[Q, T]) {
	r.add(typedRoute[Q, T](application.KindQuery, h.Handle))
}

// RegisterVoidQuery registers the handler of a query returning no value.
func RegisterVoidQuery[Q application.Query](r *Registry, h application.VoidQueryHandler[Q]) {
	r.add(voidRoute[Q](application.KindQuery, h.Handle))
}

// AddValidator appends a validator for request type R. Validators run in the
// order they were added when failure messages are assembled.
func AddValidator[R application.Request](r *Registry, v application.Validator[R]) {
	t := reflect.TypeFor[R]()
	if !r.open(t) {
		return
	}
	if t.Kind() == reflect.Interface {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrNotConcrete, t))
		return
	}
	r.validators[t] = append(r.validators[t], func(ctx context.Context, req application.Request) ([]application.ValidationFailure, error) {
		return v.Validate(ctx, req.(R))
	})
}

// AddValidatorFunc is AddValidator for a plain function.
func AddValidatorFunc[R application.Request](r *Registry, f func(context.Context, R) ([]application.ValidationFailure, error)) {
	AddValidator[R](r, application.ValidatorFunc[R](f))
}

// Expect declares request types that must have a handler when the registry is sealed.
func (r *Registry) Expect(requests ...application.Request) {
	for _, req := range requests {
		r.expected = append(r.expected, reflect.TypeOf(req))
	}
}

// Seal validates the registrations and freezes the registry.
func (r *Registry) Seal() error {
	r.sealed = true

	errs := append([]error(nil), r.errs...)
	for t := range r.validators {
		if _, ok := r.routes[t]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOrphanValidator, t))
		}
	}
	for _, t := range r.expected {
		if _, ok := r.routes[t]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNoHandler, t))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid pipeline registry: %w", errors.Join(errs...))
	}

	for t, rt := range r.routes {
		rt.validators = r.validators[t]
	}
	return nil
}

func (r *Registry) add(rt *route) {
	if !r.open(rt.requestType) {
		return
	}
	if rt.requestType.Kind() == reflect.Interface {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrNotConcrete, rt.requestType))
		return
	}
	if rt.requestType.Implements(reflect.TypeFor[application.Command]()) &&
		rt.requestType.Implements(reflect.TypeFor[application.Query]()) {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrAmbiguousKind, rt.requestType))
		return
	}
	if _, exists := r.routes[rt.requestType]; exists {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrDuplicateHandler, rt.requestType))
		return
	}
	r.routes[rt.requestType] = rt
}

// open records a registration error for t once the registry is sealed. The
// routes a dispatcher compiled are never changed afterwards.
func (r *Registry) open(t reflect.Type) bool {
	if r.sealed {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrSealed, t))
		return false
	}
	return true
}

func typedRoute[R application.Request, T any](kind application.RequestKind, handle func(context.Context, R) (application.Outcome[T], error)) *route {
	return &route{
		requestType:  reflect.TypeFor[R](),
		responseType: reflect.TypeFor[application.Outcome[T]](),
		kind:         kind,
		handle: func(ctx context.Context, req application.Request) (application.Response, error) {
			out, err := handle(ctx, req.(R))
			if err != nil {
				return nil, err
			}
			return out, nil
		},
		reject: func(failures []application.ValidationFailure) application.Response {
			return application.Invalid[T](failures)
		},
	}
}

func voidRoute[R application.Request](kind application.RequestKind, handle func(context.Context, R) (application.Result, error)) *route {
	return &route{
		requestType:  reflect.TypeFor[R](),
		responseType: reflect.TypeFor[application.Result](),
		kind:         kind,
		handle: func(ctx context.Context, req application.Request) (application.Response, error) {
			out, err := handle(ctx, req.(R))
			if err != nil {
				return nil, err
			}
			return out, nil
		},
		reject: func(failures []application.ValidationFailure) application.Response {
			return application.InvalidResult(failures)
		},
	}
}
