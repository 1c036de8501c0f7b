// Package pipeline routes commands and queries to their handlers through an
// ordered chain of behaviors.
package pipeline

import (
	"context"
	"fmt"
	"reflect"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

// Stage identifies the position a behavior occupies in the chain.
type Stage string

const (
	StageLogging     Stage = "logging"
	StageValidation  Stage = "validation"
	StageTransaction Stage = "transaction"
)

// StandardOrder is the behavior order, outermost first.
var StandardOrder = [...]Stage{StageLogging, StageValidation, StageTransaction}

// Next invokes the remainder of the chain.
type Next func(ctx context.Context) (application.Response, error)

// Behavior wraps the next stage of the chain. A behavior may short-circuit
// before calling next and may inspect the response after it returns. Errors
// and panics raised by next must be propagated unchanged.
type Behavior interface {
	Stage() Stage
	Handle(ctx context.Context, call *Call, next Next) (application.Response, error)
}

// Call describes one request traversing the chain.
type Call struct {
	Request       application.Request
	Name          string
	Type          string
	Kind          application.RequestKind
	CorrelationID string

	route *route
}

type invoker func(ctx context.Context, call *Call) (application.Response, error)

// Dispatcher resolves requests to their precomposed chains. It holds no
// mutable state and is safe for concurrent use.
type Dispatcher struct {
	routes map[reflect.Type]*route
	stages []Stage
}

// NewDispatcher seals the registry and composes one chain per request type.
// Behaviors are placed by their Stage according to StandardOrder; each stage
// must be supplied exactly once.
func NewDispatcher(reg *Registry, behaviors ...Behavior) (*Dispatcher, error) {
	ordered, err := orderBehaviors(behaviors)
	if err != nil {
		return nil, err
	}
	if err := reg.Seal(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		routes: make(map[reflect.Type]*route, len(reg.routes)),
		stages: StandardOrder[:],
	}
	for t, rt := range reg.routes {
		rt.invoke = compose(rt, ordered)
		d.routes[t] = rt
	}
	return d, nil
}

// Stages returns the behavior order used by the dispatcher.
func (d *Dispatcher) Stages() []Stage {
	return append([]Stage(nil), d.stages...)
}

// Handles reports whether a handler is registered for the request's type.
func (d *Dispatcher) Handles(req application.Request) bool {
	_, ok := d.routes[reflect.TypeOf(req)]
	return ok
}

// Send dispatches a request whose handler returns a value.
func Send[T any](ctx context.Context, d *Dispatcher, req application.Request) (application.Outcome[T], error) {
	resp, err := d.dispatch(ctx, req, reflect.TypeFor[application.Outcome[T]]())
	if err != nil {
		return application.Outcome[T]{}, err
	}
	out, ok := resp.(application.Outcome[T])
	if !ok {
		return application.Outcome[T]{}, fmt.Errorf("%w: chain returned %T", ErrResponseShape, resp)
	}
	return out, nil
}

// Execute dispatches a request whose handler returns no value.
func Execute(ctx context.Context, d *Dispatcher, req application.Request) (application.Result, error) {
	resp, err := d.dispatch(ctx, req, reflect.TypeFor[application.Result]())
	if err != nil {
		return application.Result{}, err
	}
	out, ok := resp.(application.Result)
	if !ok {
		return application.Result{}, fmt.Errorf("%w: chain returned %T", ErrResponseShape, resp)
	}
	return out, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req application.Request, want reflect.Type) (application.Response, error) {
	t := reflect.TypeOf(req)
	rt, ok := d.routes[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoHandler, t)
	}
	if rt.responseType != want {
		return nil, fmt.Errorf("%w: %s returns %s, not %s", ErrResponseShape, t, rt.responseType, want)
	}

	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		ctx = observability.WithCorrelationID(ctx, "")
		correlationID = observability.CorrelationIDFromContext(ctx)
	}

	call := &Call{
		Request:       req,
		Name:          req.RequestName(),
		Type:          t.String(),
		Kind:          rt.kind,
		CorrelationID: correlationID,
		route:         rt,
	}
	return rt.invoke(ctx, call)
}

func orderBehaviors(behaviors []Behavior) ([]Behavior, error) {
	byStage := make(map[Stage]Behavior, len(behaviors))
	for _, b := range behaviors {
		stage := b.Stage()
		if !knownStage(stage) {
			return nil, fmt.Errorf("unknown pipeline stage %q", stage)
		}
		if _, dup := byStage[stage]; dup {
			return nil, fmt.Errorf("pipeline stage %q supplied twice", stage)
		}
		byStage[stage] = b
	}

	ordered := make([]Behavior, 0, len(StandardOrder))
	for _, stage := range StandardOrder {
		b, ok := byStage[stage]
		if !ok {
			return nil, fmt.Errorf("pipeline stage %q not supplied", stage)
		}
		ordered = append(ordered, b)
	}
	return ordered, nil
}

func knownStage(stage Stage) bool {
	for _, s := range StandardOrder {
		if s == stage {
			return true
		}
	}
	return false
}

// compose builds the chain for one route, innermost handler first.
func compose(rt *route, behaviors []Behavior) invoker {
	handle := rt.handle
	chain := invoker(func(ctx context.Context, call *Call) (application.Response, error) {
		return handle(ctx, call.Request)
	})
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, next := behaviors[i], chain
		chain = func(ctx context.Context, call *Call) (application.Response, error) {
			return b.Handle(ctx, call, func(ctx context.Context) (application.Response, error) {
				return next(ctx, call)
			})
		}
	}
	return chain
}
