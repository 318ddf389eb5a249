package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Identity is one linked login of a user.
type Identity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Provider     string         `json:"provider"`
	IdentityData map[string]any `json:"identity_data"`
}

// User is the GoTrue user record.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud"`
	Role         string         `json:"role"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	Identities   []Identity     `json:"identities,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
}

// IdentityData returns the profile data of the first identity, falling back
// to the user metadata.
func (u *User) IdentityData() map[string]any {
	if u == nil {
		return map[string]any{}
	}
	for _, id := range u.Identities {
		if id.IdentityData != nil {
			return id.IdentityData
		}
	}
	if u.UserMetadata != nil {
		return u.UserMetadata
	}
	return map[string]any{"sub": u.ID, "email": u.Email}
}

// Session is a GoTrue token grant.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// SignInWithPassword exchanges email and password for a session. Rejected
// credentials match ErrUnauthorized.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	// sign in always uses the anon key, never a caller token
	ctx = WithAccessToken(ctx, "")
	resp, err := c.do(ctx, "auth", http.MethodPost, c.authURL+"/token?grant_type=password", payload, nil)
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(resp.body, &session); err != nil {
		return nil, fmt.Errorf("supabase: decode session: %w", err)
	}
	return &session, nil
}

// GetUser resolves the user owning an access token. Invalid or expired
// tokens match ErrUnauthorized.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	resp, err := c.do(WithAccessToken(ctx, token), "auth", http.MethodGet, c.authURL+"/user", nil, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(resp.body, &user); err != nil {
		return nil, fmt.Errorf("supabase: decode user: %w", err)
	}
	return &user, nil
}

// Ping checks the auth service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(WithAccessToken(ctx, ""), "health", http.MethodGet, c.authURL+"/health", nil, nil)
	return err
}
