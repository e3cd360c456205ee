// Package requestctx carries the correlation id of one call through the
// domain services, whether it arrived over HTTP or from the CLI.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns "" when ctx carries no id.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewOperation tags ctx with a fresh id prefixed by origin, e.g. "cli-6f1c...".
// An id already on ctx is kept.
func NewOperation(ctx context.Context, origin string) context.Context {
	if GetRequestID(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, origin+"-"+uuid.NewString())
}
