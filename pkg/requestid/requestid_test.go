package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestid.FromContext(r.Context())))
	}))

	t.Run("generates id when absent", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(requestid.Header)
		require.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reuses valid client id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "trace-abc_123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "trace-abc_123", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed client id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "bad id with spaces")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, "bad id with spaces", rec.Header().Get(requestid.Header))
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})
}
