// Package response translates outcomes into transport responses.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

// Response is a status, an optional body and headers ready to be written.
type Response struct {
	Status  int
	Body    any
	Headers http.Header
}

// ErrorBody is the body of every failure response.
type ErrorBody struct {
	Message string `json:"message"`
}

// Mapper classifies failures. The zero value classifies by message text:
// "not found" → 404, then "unauthorized" → 401, otherwise 400, matched
// case-insensitively. With UseKinds the failure kind decides instead and
// the message is never inspected.
type Mapper struct {
	UseKinds bool
}

// Default is the message-classifying mapper used by the package functions.
var Default = Mapper{}

// Map maps an outcome: 200 with the value, or a failure response.
func Map[T any](out application.Outcome[T]) Response {
	return MapWith(Default, out)
}

// MapCreated maps an outcome of a creation: 201 with the value and a
// Location header, or a failure response.
func MapCreated[T any](out application.Outcome[T], location string) Response {
	return MapCreatedWith(Default, out, location)
}

// MapResult maps a result without value: 204, or a failure response.
func MapResult(res application.Result) Response {
	return Default.MapResult(res)
}

// MapWith is Map using m.
func MapWith[T any](m Mapper, out application.Outcome[T]) Response {
	if !out.IsSuccess() {
		return m.Failure(out)
	}
	return Response{Status: http.StatusOK, Body: out.Value()}
}

// MapCreatedWith is MapCreated using m.
func MapCreatedWith[T any](m Mapper, out application.Outcome[T], location string) Response {
	if !out.IsSuccess() {
		return m.Failure(out)
	}
	headers := http.Header{}
	headers.Set("Location", location)
	return Response{Status: http.StatusCreated, Body: out.Value(), Headers: headers}
}

// MapResult is the package MapResult using m.
func (m Mapper) MapResult(res application.Result) Response {
	if !res.IsSuccess() {
		return m.Failure(res)
	}
	return Response{Status: http.StatusNoContent}
}

// Failure builds the response of a failed outcome.
func (m Mapper) Failure(resp application.Response) Response {
	return Response{
		Status: m.Status(resp),
		Body:   ErrorBody{Message: resp.Message()},
	}
}

// Status returns the status code of a failed outcome.
func (m Mapper) Status(resp application.Response) int {
	if m.UseKinds {
		return statusOfKind(resp.Kind())
	}
	return ClassifyMessage(resp.Message())
}

// ClassifyMessage applies the message rule.
func ClassifyMessage(message string) int {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "not found"):
		return http.StatusNotFound
	case strings.Contains(lower, "unauthorized"):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func statusOfKind(kind application.FailureKind) int {
	switch kind {
	case application.FailureNotFound:
		return http.StatusNotFound
	case application.FailureUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// Write sends r as JSON. A 204 response has no body.
func Write(w http.ResponseWriter, r Response) {
	for key, values := range r.Headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if r.Status == http.StatusNoContent || r.Body == nil {
		w.WriteHeader(r.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	if err := json.NewEncoder(w).Encode(r.Body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
