package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"scorum/pkg/requestcontext"
)

// RequestIDHeader is the inbound header carrying a caller-assigned
// correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a correlation ID to every request: the caller-supplied
// X-Request-ID when present, a generated UUID otherwise. The ID is stored in
// the context and echoed back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
