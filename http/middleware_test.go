package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	binderhttp "github.com/binderhq/binder/http"
)

func TestRequestID(t *testing.T) {
	t.Run("generates an id", func(t *testing.T) {
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = binderhttp.RequestIDFromContext(r.Context())
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		binderhttp.RequestID(next).ServeHTTP(rec, req)

		assert.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, "request id should be a uuid")
		assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})

	t.Run("honours caller-supplied id", func(t *testing.T) {
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = binderhttp.RequestIDFromContext(r.Context())
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-Id", "caller-id-123")
		binderhttp.RequestID(next).ServeHTTP(rec, req)

		assert.Equal(t, "caller-id-123", seen)
		assert.Equal(t, "caller-id-123", rec.Header().Get("X-Request-Id"))
	})
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, binderhttp.RequestIDFromContext(req.Context()))
}

func TestRequestLogger(t *testing.T) {
	t.Run("passes the request through", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bin", nil)
		binderhttp.RequestLogger(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("default status is 200", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		binderhttp.RequestLogger(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
