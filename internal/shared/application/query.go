package application

import "context"

// Query represents a request that reads system state.
// Implementations embed QueryBase.
type Query interface {
	Request
	isQuery()
}

// QueryBase marks a request type as a query.
type QueryBase struct{}

func (QueryBase) isQuery() {}

// QueryHandler handles a specific query type.
type QueryHandler[Q Query, T any] interface {
	Handle(ctx context.Context, query Q) (Outcome[T], error)
}

// VoidQueryHandler handles a query that only reports success or failure.
type VoidQueryHandler[Q Query] interface {
	Handle(ctx context.Context, query Q) (Result, error)
}

// QueryHandlerFunc adapts a function to QueryHandler.
type QueryHandlerFunc[Q Query, T any] func(ctx context.Context, query Q) (Outcome[T], error)

// Handle calls f.
func (f QueryHandlerFunc[Q, T]) Handle(ctx context.Context, query Q) (Outcome[T], error) {
	return f(ctx, query)
}

// VoidQueryHandlerFunc adapts a function to VoidQueryHandler.
type VoidQueryHandlerFunc[Q Query] func(ctx context.Context, query Q) (Result, error)

// Handle calls f.
func (f VoidQueryHandlerFunc[Q]) Handle(ctx context.Context, query Q) (Result, error) {
	return f(ctx, query)
}
