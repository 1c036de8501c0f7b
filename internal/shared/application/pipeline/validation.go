package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

// ValidationBehavior runs every validator registered for the request and
// rejects it before the rest of the chain when any of them reports a failure.
type ValidationBehavior struct {
	logger *slog.Logger
}

// NewValidationBehavior creates a ValidationBehavior.
func NewValidationBehavior(logger *slog.Logger) *ValidationBehavior {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationBehavior{logger: logger}
}

// Stage returns StageValidation.
func (b *ValidationBehavior) Stage() Stage { return StageValidation }

// Handle validates the request and either calls next or returns a failure
// shaped like the response of the request's handler.
func (b *ValidationBehavior) Handle(ctx context.Context, call *Call, next Next) (application.Response, error) {
	validators := call.route.validators
	if len(validators) == 0 {
		return next(ctx)
	}

	failures, err := runValidators(ctx, validators, call.Request)
	if err != nil {
		return nil, err
	}
	if len(failures) == 0 {
		return next(ctx)
	}

	b.logger.DebugContext(ctx, "request rejected by validation",
		"request_type", call.Type,
		"failures", len(failures),
	)
	return call.route.reject(failures), nil
}

// runValidators fans out to all validators and joins their failures in
// registration order. A panic in a validator is re-raised on the caller.
func runValidators(ctx context.Context, validators []validateFunc, req application.Request) ([]application.ValidationFailure, error) {
	if len(validators) == 1 {
		return validators[0](ctx, req)
	}

	results := make([][]application.ValidationFailure, len(validators))
	panics := make([]any, len(validators))

	g, gctx := errgroup.WithContext(ctx)
	for i, validate := range validators {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					panics[i] = r
				}
			}()
			results[i], err = validate(gctx, req)
			return err
		})
	}
	err := g.Wait()

	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
	if err != nil {
		return nil, err
	}

	var failures []application.ValidationFailure
	for _, r := range results {
		failures = append(failures, r...)
	}
	return failures, nil
}
