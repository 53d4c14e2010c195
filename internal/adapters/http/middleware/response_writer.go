// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// The router installs them in this order:
//
//	Recovery → RequestID → OpenTelemetry → Logging → Handler
//
// No per-request timeout is applied because the event stream is long-lived.
package middleware

import "net/http"

// responseWriter records what a handler wrote: status, body bytes, and how
// many times it flushed. Event streams flush once per event, so flushes is
// the number of events delivered.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
	flushes       int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader keeps the first status; later calls are ignored.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// FlushError counts the flush and forwards it through
// http.ResponseController, so nested wrappers all see it.
func (rw *responseWriter) FlushError() error {
	rw.headerWritten = true
	rw.flushes++
	return http.NewResponseController(rw.ResponseWriter).Flush()
}

// Flush implements http.Flusher for handlers that type-assert.
func (rw *responseWriter) Flush() {
	_ = rw.FlushError()
}

// Unwrap lets http.ResponseController reach the connection for deadlines
// and hijacking.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
