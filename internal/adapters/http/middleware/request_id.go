package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/projectboard/internal/platform/httpclient"
)

const maxRequestIDLength = 128

// WithRequestID stores id in ctx. The key is shared with the outbound
// client, so webhook deliveries caused by this request send the same
// X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return httpclient.WithRequestID(ctx, id)
}

// RequestIDFromContext returns the stored request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return httpclient.RequestIDFrom(ctx)
}

// RequestID adopts the caller's X-Request-ID when it is acceptable and
// otherwise mints a UUID v4. The ID goes into the context and back out in
// the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(httpclient.RequestIDHeader)
			if !acceptableRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(httpclient.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

// acceptableRequestID admits 1 to 128 visible ASCII characters. Anything
// else could smuggle control characters into logs.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}
