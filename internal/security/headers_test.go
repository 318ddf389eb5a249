package security_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/security"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func serve(h security.Headers, req *http.Request) http.Header {
	rr := httptest.NewRecorder()
	h.Middleware(okHandler()).ServeHTTP(rr, req)
	return rr.Header()
}

func TestHeadersOverTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/invoice/1", nil)
	req.TLS = &tls.ConnectionState{}
	hdr := serve(security.Headers{HSTS: 365 * 24 * time.Hour, IncludeSubdomains: true, NoStore: true}, req)

	require.Equal(t, "nosniff", hdr.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", hdr.Get("X-Frame-Options"))
	require.Equal(t, "default-src 'none'; frame-ancestors 'none'", hdr.Get("Content-Security-Policy"))
	require.Equal(t, "no-store", hdr.Get("Cache-Control"))
	require.Equal(t, "max-age=31536000; includeSubDomains", hdr.Get("Strict-Transport-Security"))
}

func TestHeadersPlainHTTP(t *testing.T) {
	hdr := serve(security.Headers{HSTS: time.Hour}, httptest.NewRequest(http.MethodGet, "http://localhost/stats", nil))
	require.Empty(t, hdr.Get("Strict-Transport-Security"))
	require.Empty(t, hdr.Get("Cache-Control"))
	require.Equal(t, "no-referrer", hdr.Get("Referrer-Policy"))
}

func TestHeadersWithoutHSTS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	req.TLS = &tls.ConnectionState{}
	require.Empty(t, serve(security.Headers{}, req).Get("Strict-Transport-Security"))
}
