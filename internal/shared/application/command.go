package application

import "context"

// Command represents a request that modifies system state.
// Implementations embed CommandBase.
type Command interface {
	Request
	isCommand()
}

// CommandBase marks a request type as a command.
type CommandBase struct{}

func (CommandBase) isCommand() {}

// CommandHandler handles a command that returns a value.
type CommandHandler[C Command, T any] interface {
	Handle(ctx context.Context, cmd C) (Outcome[T], error)
}

// VoidCommandHandler handles a command that returns no value.
type VoidCommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) (Result, error)
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc[C Command, T any] func(ctx context.Context, cmd C) (Outcome[T], error)

// Handle calls f.
func (f CommandHandlerFunc[C, T]) Handle(ctx context.Context, cmd C) (Outcome[T], error) {
	return f(ctx, cmd)
}

// VoidCommandHandlerFunc adapts a function to VoidCommandHandler.
type VoidCommandHandlerFunc[C Command] func(ctx context.Context, cmd C) (Result, error)

// Handle calls f.
func (f VoidCommandHandlerFunc[C]) Handle(ctx context.Context, cmd C) (Result, error) {
	return f(ctx, cmd)
}
