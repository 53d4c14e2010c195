package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/projectboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/projectboard/internal/platform/httpclient"
)

func pipeline(buf *bytes.Buffer, h http.HandlerFunc) http.Handler {
	logger := testLogger(buf)

	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.OpenTelemetry(nil),
		middleware.Logging(logger),
	)
	r.Get("/api/v1/projects", h)
	return r
}

func TestPipeline_RequestIDReachesHandlerAndOutboundCalls(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var inHandler, outbound string
	h := pipeline(&buf, func(w http.ResponseWriter, r *http.Request) {
		inHandler = middleware.RequestIDFromContext(r.Context())
		outbound = httpclient.RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, id, inHandler)
	assert.Equal(t, id, outbound)
	assert.Contains(t, buf.String(), "request_id="+id)
}

func TestPipeline_PanicIsLoggedOnceAndAnsweredWithProblem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := pipeline(&buf, func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, strings.Count(buf.String(), "panic recovered"))
}
