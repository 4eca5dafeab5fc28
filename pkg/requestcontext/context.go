// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, handlers and services read
// them, without the readers having to import net/http.
package requestcontext

import "context"

type requestIDKey struct{}

// RequestID retrieves the correlation ID assigned to the current request.
// Returns "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
