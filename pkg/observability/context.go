package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by logs, spans and metric tags.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	UserIDKey        = "user_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
)

// RequestInfo is the per-request identity carried through a context.
// CorrelationID survives across processes; RequestID is local to one entry
// point.
type RequestInfo struct {
	CorrelationID string
	RequestID     string
	UserID        string
}

type requestInfoKey struct{}

// RequestInfoFromContext returns the request identity stored in ctx, or the
// zero value.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}

func withInfo(ctx context.Context, update func(*RequestInfo)) context.Context {
	info := RequestInfoFromContext(ctx)
	update(&info)
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// WithCorrelationID sets the correlation id, generating one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return withInfo(ctx, func(info *RequestInfo) { info.CorrelationID = id })
}

// CorrelationIDFromContext returns "" when no correlation id is set.
func CorrelationIDFromContext(ctx context.Context) string {
	return RequestInfoFromContext(ctx).CorrelationID
}

// WithUserID records the authenticated caller.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withInfo(ctx, func(info *RequestInfo) { info.UserID = userID })
}

// NewRequestContext starts a request scope with a fresh request id. The
// caller's correlation id is kept, or generated when the caller sent none.
func NewRequestContext(ctx context.Context, parentCorrelationID string) context.Context {
	if parentCorrelationID == "" {
		parentCorrelationID = uuid.NewString()
	}
	requestID := uuid.NewString()
	return withInfo(ctx, func(info *RequestInfo) {
		info.CorrelationID = parentCorrelationID
		info.RequestID = requestID
	})
}
