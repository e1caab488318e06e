package domain

import "context"

type CtxKey string

const (
	KeyAdminID       CtxKey = "AdminID"
	KeyAdminUsername CtxKey = "AdminUsername"
	KeyRequestID     CtxKey = "RequestID"
)

// RequestIDFrom returns the request ID stored in ctx by the HTTP layer, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
