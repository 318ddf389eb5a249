package auth_test

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/auth"
)

func buildToken(t *testing.T, mutate func(*jwt.Builder) *jwt.Builder) jwt.Token {
	t.Helper()
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	b := jwt.NewBuilder().
		Issuer("https://project.supabase.co/auth/v1").
		Audience([]string{"authenticated"}).
		Subject("user-9").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("role", "authenticated").
		Claim("email", "ops@example.com")
	if mutate != nil {
		b = mutate(b)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	return tok
}

func TestClaimsPolicy(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	policy := auth.ClaimsPolicy{
		Issuer:   "https://project.supabase.co/auth/v1",
		Audience: "authenticated",
		Leeway:   30 * time.Second,
		Roles:    []string{"authenticated"},
	}

	p, err := policy.Principal(buildToken(t, nil), now)
	require.NoError(t, err)
	require.Equal(t, auth.Principal{UserID: "user-9", Email: "ops@example.com", Role: "authenticated"}, p)

	cases := []struct {
		name   string
		mutate func(*jwt.Builder) *jwt.Builder
		at     time.Time
		want   error
	}{
		{name: "expired", at: now.Add(2 * time.Hour), want: auth.ErrTokenExpired},
		{name: "within leeway", at: now.Add(30*time.Minute + 10*time.Second)},
		{name: "other issuer", mutate: func(b *jwt.Builder) *jwt.Builder { return b.Issuer("https://other.supabase.co/auth/v1") }, want: auth.ErrInvalidToken},
		{name: "anon key", mutate: func(b *jwt.Builder) *jwt.Builder { return b.Claim("role", "anon") }, want: auth.ErrInvalidToken},
		{name: "wrong audience", mutate: func(b *jwt.Builder) *jwt.Builder { return b.Audience([]string{"service"}) }, want: auth.ErrInvalidToken},
		{name: "no subject", mutate: func(b *jwt.Builder) *jwt.Builder { return b.Subject("") }, want: auth.ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := tc.at
			if at.IsZero() {
				at = now
			}
			_, err := policy.Principal(buildToken(t, tc.mutate), at)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}
