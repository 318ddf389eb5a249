package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ClaimsPolicy decides whether a signature-checked token identifies a user.
type ClaimsPolicy struct {
	// Issuer is compared verbatim when set, e.g. "https://x.supabase.co/auth/v1".
	Issuer   string
	Audience string
	Leeway   time.Duration
	// Roles limits the accepted "role" claim. Anon and service keys are
	// signed with the same secret and must not pass as users.
	Roles []string
}

// Principal checks tok at now and returns the caller it names. Failures wrap
// ErrTokenExpired or ErrInvalidToken.
func (p ClaimsPolicy) Principal(tok jwt.Token, now time.Time) (Principal, error) {
	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(p.Leeway),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if p.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.Issuer))
	}
	if p.Audience != "" {
		opts = append(opts, jwt.WithAudience(p.Audience))
	}
	if err := jwt.Validate(tok, opts...); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return Principal{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if tok.Subject() == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	principal := Principal{
		UserID: tok.Subject(),
		Email:  stringClaim(tok, "email"),
		Role:   stringClaim(tok, "role"),
	}
	if len(p.Roles) > 0 && !slices.Contains(p.Roles, principal.Role) {
		return Principal{}, fmt.Errorf("%w: role %q not accepted", ErrInvalidToken, principal.Role)
	}
	return principal, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
