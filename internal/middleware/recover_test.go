package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"adopta-api/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestRecover_RendersJSON500(t *testing.T) {
	h := middleware.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
	assert.NotContains(t, rec.Body.String(), "boom")
}
