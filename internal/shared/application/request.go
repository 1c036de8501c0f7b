package application

// Request is a command or query routed through the dispatcher.
type Request interface {
	// RequestName returns a stable name used in logs and traces.
	RequestName() string
}

// RequestKind tells whether a request may mutate persisted state.
type RequestKind int

const (
	// KindQuery requests only read state.
	KindQuery RequestKind = iota
	// KindCommand requests may mutate state and run inside a persistence scope.
	KindCommand
)

// String returns the kind name.
func (k RequestKind) String() string {
	if k == KindCommand {
		return "command"
	}
	return "query"
}

// IsMutating reports whether requests of this kind need a persistence scope.
func (k RequestKind) IsMutating() bool {
	return k == KindCommand
}
