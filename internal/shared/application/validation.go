package application

import (
	"context"
	"strings"
)

// ValidationFailure describes one rejected field of a request.
type ValidationFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks a request and reports every failing field.
// A returned error is an infrastructure fault, not a validation result.
type Validator[R Request] interface {
	Validate(ctx context.Context, req R) ([]ValidationFailure, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[R Request] func(ctx context.Context, req R) ([]ValidationFailure, error)

// Validate calls f.
func (f ValidatorFunc[R]) Validate(ctx context.Context, req R) ([]ValidationFailure, error) {
	return f(ctx, req)
}

// FieldFailures groups the messages reported for one field.
type FieldFailures struct {
	Field    string
	Messages []string
}

// GroupByField groups failures by field, keeping first-discovery order of
// fields and discovery order of messages within a field.
func GroupByField(failures []ValidationFailure) []FieldFailures {
	index := make(map[string]int, len(failures))
	var groups []FieldFailures
	for _, f := range failures {
		i, ok := index[f.Field]
		if !ok {
			i = len(groups)
			index[f.Field] = i
			groups = append(groups, FieldFailures{Field: f.Field})
		}
		groups[i].Messages = append(groups[i].Messages, f.Message)
	}
	return groups
}

// CombineFailures renders failures as "<field>: <message>" entries joined by "; ".
// Grouping spans validators: [Name:a, Owner:c] followed by [Name:b] renders
// as "Name: a; Name: b; Owner: c".
func CombineFailures(failures []ValidationFailure) string {
	parts := make([]string, 0, len(failures))
	for _, group := range GroupByField(failures) {
		for _, msg := range group.Messages {
			parts = append(parts, group.Field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Violations accumulates failures while a validator checks a request.
type Violations struct {
	list []ValidationFailure
}

// Add records a failure for field.
func (v *Violations) Add(field, message string) {
	v.list = append(v.list, ValidationFailure{Field: field, Message: message})
}

// Check records a failure when ok is false and returns ok.
func (v *Violations) Check(ok bool, field, message string) bool {
	if !ok {
		v.Add(field, message)
	}
	return ok
}

// Empty reports whether no failure has been recorded.
func (v *Violations) Empty() bool {
	return len(v.list) == 0
}

// List returns the recorded failures.
func (v *Violations) List() []ValidationFailure {
	return v.list
}
