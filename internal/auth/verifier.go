package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/mirror-api/internal/supabase"
)

var (
	// ErrTokenExpired reports a token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrInvalidToken reports any other verification failure.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// Verifier checks a bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// UserFetcher resolves the user behind an access token.
type UserFetcher interface {
	GetUser(ctx context.Context, token string) (*supabase.User, error)
}

// RemoteVerifier asks the auth server about every token.
type RemoteVerifier struct {
	Users UserFetcher
}

// Verify implements Verifier.
func (v RemoteVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	user, err := v.Users.GetUser(ctx, token)
	if err != nil {
		switch {
		case supabase.IsExpired(err):
			return Principal{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, supabase.ErrUnauthorized):
			return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return Principal{}, fmt.Errorf("verify token: %w", err)
	}
	return Principal{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// JWTVerifier verifies HS256 tokens locally with the project's JWT secret.
type JWTVerifier struct {
	Secret []byte
	Policy ClaimsPolicy
	Now    func() time.Time
}

// NewJWTVerifier builds a verifier for user tokens signed with secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	return &JWTVerifier{
		Secret: []byte(secret),
		Policy: ClaimsPolicy{
			Audience: "authenticated",
			Leeway:   30 * time.Second,
			Roles:    []string{"authenticated"},
		},
	}, nil
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(_ context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	algorithm, err := extractTokenAlgorithm(token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if algorithm != jwa.HS256 {
		return Principal{}, fmt.Errorf("%w: unexpected algorithm %s", ErrInvalidToken, algorithm)
	}
	// Claims are checked by the policy against the injected clock.
	parsed, err := jwt.ParseString(token, jwt.WithKey(jwa.HS256, v.Secret), jwt.WithValidate(false))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	return v.Policy.Principal(parsed, now())
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil {
		return "", errors.New("auth: token missing protected headers")
	}
	alg := headers.Algorithm()
	if alg == "" {
		return "", errors.New("auth: token missing algorithm")
	}
	if alg == jwa.NoSignature {
		return "", errors.New("auth: token uses none algorithm")
	}
	return alg, nil
}
