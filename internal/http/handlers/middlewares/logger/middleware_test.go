package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	h := MiddlewareLogging(&log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Логирует запрос и выдает request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/some/path", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		out := buf.String()
		assert.Contains(t, out, `"path":"/some/path"`)
		assert.Contains(t, out, `"status":418`)
		assert.Contains(t, out, `"error_type":"client_error"`)
	})

	t.Run("Сохраняет входящий request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	})

	t.Run("Паника превращается в 500", func(t *testing.T) {
		buf.Reset()
		panicking := MiddlewareLogging(&log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, buf.String(), "request panic")
	})
}
