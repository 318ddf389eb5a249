// Package security holds response hardening and request size middleware.
package security

import (
	"net/http"
	"strconv"
	"time"
)

// apiCSP fits a JSON and PDF API: nothing served here should load
// sub-resources or be framed.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// Headers sets hardening headers on every response.
type Headers struct {
	// HSTS is the Strict-Transport-Security max-age, sent on TLS requests
	// only. Zero disables the header.
	HSTS              time.Duration
	IncludeSubdomains bool
	// NoStore adds Cache-Control: no-store. Invoices and tokens must not
	// sit in shared caches.
	NoStore bool
}

// Middleware applies h before calling next.
func (h Headers) Middleware(next http.Handler) http.Handler {
	hsts := ""
	if h.HSTS > 0 {
		hsts = "max-age=" + strconv.FormatInt(int64(h.HSTS/time.Second), 10)
		if h.IncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("X-Frame-Options", "DENY")
		hdr.Set("Referrer-Policy", "no-referrer")
		hdr.Set("Content-Security-Policy", apiCSP)
		hdr.Set("Cross-Origin-Resource-Policy", "same-site")
		if h.NoStore {
			hdr.Set("Cache-Control", "no-store")
		}
		if hsts != "" && r.TLS != nil {
			hdr.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}
