package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter_Defaults(t *testing.T) {
	t.Parallel()

	rw := newResponseWriter(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.False(t, rw.headerWritten)
	assert.Zero(t, rw.written)
	assert.Zero(t, rw.flushes)
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusBadRequest)

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestResponseWriter_WriteCountsBytes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	_, _ = rw.Write([]byte(`{"projects":[],`))
	_, _ = rw.Write([]byte(`"count":0}`))

	assert.True(t, rw.headerWritten)
	assert.Equal(t, int64(len(`{"projects":[],"count":0}`)), rw.written)
	assert.Equal(t, http.StatusOK, rw.statusCode)
}

func TestResponseWriter_FlushCountedThroughNestedWrappers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	outer := newResponseWriter(rec)
	inner := newResponseWriter(outer)

	rc := http.NewResponseController(inner)
	for range 3 {
		_, _ = inner.Write([]byte("event: snapshot\ndata: {}\n\n"))
		assert.NoError(t, rc.Flush())
	}

	assert.Equal(t, 3, inner.flushes)
	assert.Equal(t, 3, outer.flushes)
	assert.True(t, rec.Flushed)
}

func TestResponseWriter_FlusherAssertion(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	var w http.ResponseWriter = rw
	f, ok := w.(http.Flusher)
	if assert.True(t, ok) {
		f.Flush()
	}
	assert.Equal(t, 1, rw.flushes)
	assert.True(t, rec.Flushed)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	assert.Same(t, rec, rw.Unwrap())
}
