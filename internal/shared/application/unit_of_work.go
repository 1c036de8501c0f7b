package application

import "context"

// UnitOfWork opens persistence scopes. It is supplied by the storage layer.
type UnitOfWork interface {
	Begin(ctx context.Context) (Scope, error)
}

// Scope is one atomic unit of storage work owned by a single request.
type Scope interface {
	// Context returns the context handlers must use to join the scope.
	Context() context.Context
	// Enlist registers a write to run when the scope is flushed.
	Enlist(write PendingWrite)
	// AfterCommit registers a hook to run once the scope has committed.
	// Hooks of a rolled back scope never run.
	AfterCommit(hook CommitHook)
	// Flush runs the enlisted writes in order.
	Flush(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close releases the scope, rolling back if it is still open.
	Close() error
}

// PendingWrite is storage work deferred until the scope is flushed.
type PendingWrite func(ctx context.Context) error

// CommitHook is work that must only observe committed state, such as cache
// invalidation. It cannot fail the request.
type CommitHook func(ctx context.Context)

type scopeKey struct{}

// WithScope stores the scope in the context.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the scope opened for the current request, if any.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(Scope)
	return scope, ok && scope != nil
}

// Enlist registers write with the current scope. Without a scope the write
// runs immediately.
func Enlist(ctx context.Context, write PendingWrite) error {
	if scope, ok := ScopeFromContext(ctx); ok {
		scope.Enlist(write)
		return nil
	}
	return write(ctx)
}

// AfterCommit registers hook with the current scope. Without a scope there is
// nothing to wait for and the hook runs immediately.
func AfterCommit(ctx context.Context, hook CommitHook) {
	if scope, ok := ScopeFromContext(ctx); ok {
		scope.AfterCommit(hook)
		return
	}
	hook(ctx)
}
