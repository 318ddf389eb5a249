package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/supabase"
)

// DefaultPublicPaths are reachable without a token.
var DefaultPublicPaths = []string{"/", "/login", "/docs", "/openapi.json", "/open-route", "/env-check", "/v1/register", "/health/live", "/health/ready"}

// DefaultPublicPrefixes are path prefixes reachable without a token.
var DefaultPublicPrefixes = []string{"/static/"}

// Middleware enforces bearer authentication on every non-public route.
type Middleware struct {
	Verifier       Verifier
	Public         []string
	PublicPrefixes []string
}

// RequireAuth rejects requests without a valid bearer token. On success the
// user id and the raw token travel on the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || m.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if m.Verifier == nil {
			common.JSONError(w, http.StatusInternalServerError, "AUTH_NOT_CONFIGURED", "auth not configured", nil)
			return
		}
		token := bearerToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Access denied", nil)
			return
		}
		principal, err := m.Verifier.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				common.JSONError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", nil)
			case errors.Is(err, ErrInvalidToken):
				common.JSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token", nil)
			default:
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("token verification failed")
				common.JSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token", nil)
			}
			return
		}
		ctx := common.WithUserID(r.Context(), principal.UserID)
		ctx = supabase.WithAccessToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) isPublic(path string) bool {
	for _, p := range m.Public {
		if path == p {
			return true
		}
	}
	for _, prefix := range m.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
