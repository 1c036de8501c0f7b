package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

// TransactionBehavior runs commands inside a persistence scope. Queries pass
// straight through. The scope commits only when the handler succeeds and is
// released on every exit path.
type TransactionBehavior struct {
	uow    application.UnitOfWork
	logger *slog.Logger
}

// NewTransactionBehavior creates a TransactionBehavior.
func NewTransactionBehavior(uow application.UnitOfWork, logger *slog.Logger) *TransactionBehavior {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionBehavior{uow: uow, logger: logger}
}

// Stage returns StageTransaction.
func (b *TransactionBehavior) Stage() Stage { return StageTransaction }

// Handle wraps next in a scope when the request is mutating.
func (b *TransactionBehavior) Handle(ctx context.Context, call *Call, next Next) (application.Response, error) {
	if !call.Kind.IsMutating() {
		return next(ctx)
	}

	scope, err := b.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin persistence scope: %w", err)
	}
	defer func() {
		if err := scope.Close(); err != nil {
			b.logger.WarnContext(ctx, "failed to release persistence scope",
				"request_type", call.Type,
				"error", err,
			)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			b.rollback(ctx, scope, call, "panic")
			panic(r)
		}
	}()

	txCtx := application.WithScope(scope.Context(), scope)
	resp, err := next(txCtx)
	if err != nil {
		b.rollback(ctx, scope, call, "error")
		return resp, err
	}
	if !resp.IsSuccess() {
		b.rollback(ctx, scope, call, "failure")
		return resp, nil
	}

	if err := scope.Flush(txCtx); err != nil {
		b.rollback(ctx, scope, call, "flush")
		return nil, fmt.Errorf("flush persistence scope: %w", err)
	}
	if err := scope.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("commit persistence scope: %w", err)
	}

	b.logger.DebugContext(ctx, "persistence scope committed", "request_type", call.Type)
	return resp, nil
}

// rollback undoes the scope even when the request context is cancelled.
func (b *TransactionBehavior) rollback(ctx context.Context, scope application.Scope, call *Call, reason string) {
	if err := scope.Rollback(context.WithoutCancel(ctx)); err != nil {
		b.logger.WarnContext(ctx, "failed to roll back persistence scope",
			"request_type", call.Type,
			"reason", reason,
			"error", err,
		)
		return
	}
	b.logger.DebugContext(ctx, "persistence scope rolled back",
		"request_type", call.Type,
		"reason", reason,
	)
}
