package obs

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/mirror-api/internal/common"
)

// MetricsHandler serves the default registry. With a non-empty token the
// caller must send "Authorization: Bearer <token>"; with an empty token the
// route is expected to sit behind user authentication.
func MetricsHandler(token string) http.Handler {
	metrics := promhttp.Handler()
	if token == "" {
		return metrics
	}
	want := []byte("Bearer " + token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(strings.TrimSpace(r.Header.Get("Authorization")))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Access denied", nil)
			return
		}
		metrics.ServeHTTP(w, r)
	})
}
