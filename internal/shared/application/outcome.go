package application

// FailureKind classifies a failure independently of its message text.
type FailureKind int

const (
	// FailureGeneric is a business rejection with no more specific kind.
	FailureGeneric FailureKind = iota
	// FailureValidation marks a failure produced by request validation.
	FailureValidation
	// FailureNotFound marks a failure caused by a missing resource.
	FailureNotFound
	// FailureUnauthorized marks a failure caused by denied access.
	FailureUnauthorized
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureValidation:
		return "validation"
	case FailureNotFound:
		return "not_found"
	case FailureUnauthorized:
		return "unauthorized"
	default:
		return "generic"
	}
}

// Response is the view of an outcome shared by Outcome[T] and Result.
// Behaviors inspect responses through this interface only.
type Response interface {
	IsSuccess() bool
	Message() string
	Kind() FailureKind
	Failures() []ValidationFailure
}

// failure holds the failure side of an outcome.
type failure struct {
	message  string
	kind     FailureKind
	failures []ValidationFailure
}

// Outcome is the result of a request that returns a value on success.
// The zero value is a failure with an empty message; use the constructors.
type Outcome[T any] struct {
	value T
	ok    bool
	fail  failure
}

// Success returns a successful outcome carrying value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Failure returns a failed outcome with a generic kind.
func Failure[T any](message string) Outcome[T] {
	return FailureOf[T](FailureGeneric, message)
}

// FailureOf returns a failed outcome with an explicit kind.
func FailureOf[T any](kind FailureKind, message string) Outcome[T] {
	return Outcome[T]{fail: failure{message: message, kind: kind}}
}

// Invalid returns a validation failure built from field failures.
func Invalid[T any](failures []ValidationFailure) Outcome[T] {
	return Outcome[T]{fail: validationFailure(failures)}
}

func (o Outcome[T]) IsSuccess() bool { return o.ok }
func (o Outcome[T]) IsFailure() bool { return !o.ok }

// Value returns the success value, or the zero value of T on failure.
func (o Outcome[T]) Value() T { return o.value }

// Message returns the failure message; empty on success.
func (o Outcome[T]) Message() string { return o.fail.message }

// Kind returns the failure kind; FailureGeneric on success.
func (o Outcome[T]) Kind() FailureKind { return o.fail.kind }

// Failures returns the field failures of a validation outcome.
func (o Outcome[T]) Failures() []ValidationFailure { return o.fail.failures }

// Result is the outcome of a request that returns no value.
type Result struct {
	ok   bool
	fail failure
}

// Ok returns a successful result.
func Ok() Result {
	return Result{ok: true}
}

// Fail returns a failed result with a generic kind.
func Fail(message string) Result {
	return FailWith(FailureGeneric, message)
}

// FailWith returns a failed result with an explicit kind.
func FailWith(kind FailureKind, message string) Result {
	return Result{fail: failure{message: message, kind: kind}}
}

// InvalidResult returns a validation failure built from field failures.
func InvalidResult(failures []ValidationFailure) Result {
	return Result{fail: validationFailure(failures)}
}

func (r Result) IsSuccess() bool               { return r.ok }
func (r Result) IsFailure() bool               { return !r.ok }
func (r Result) Message() string               { return r.fail.message }
func (r Result) Kind() FailureKind             { return r.fail.kind }
func (r Result) Failures() []ValidationFailure { return r.fail.failures }

func validationFailure(failures []ValidationFailure) failure {
	return failure{
		message:  CombineFailures(failures),
		kind:     FailureValidation,
		failures: failures,
	}
}
