package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starter-api/backend/internal/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.NewSecurityHeaders()(trivialHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Opener-Policy"))
}

func TestClickjackingGuard(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.NewClickjackingGuard()(trivialHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAllowedHosts(t *testing.T) {
	tests := []struct {
		allowed []string
		host    string
		want    int
	}{
		{nil, "anything.test", http.StatusOK},
		{[]string{"api.example.com"}, "api.example.com", http.StatusOK},
		{[]string{"api.example.com"}, "API.example.com:8080", http.StatusOK},
		{[]string{"api.example.com"}, "evil.test", http.StatusBadRequest},
		{[]string{".example.com"}, "example.com", http.StatusOK},
		{[]string{".example.com"}, "a.b.example.com", http.StatusOK},
		{[]string{".example.com"}, "badexample.com", http.StatusBadRequest},
		{[]string{"*"}, "whatever", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tc.host
			rec := httptest.NewRecorder()

			middleware.NewAllowedHosts(tc.allowed)(trivialHandler).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
