package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized matches auth failures: rejected credentials or tokens.
var ErrUnauthorized = errors.New("supabase: unauthorized")

// Error is a non-2xx answer from PostgREST or GoTrue.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Is reports 401/403 answers and GoTrue's rejected-credential 400s as
// ErrUnauthorized.
func (e *Error) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	switch {
	case e.Status == http.StatusUnauthorized, e.Status == http.StatusForbidden:
		return true
	case e.Status == http.StatusBadRequest && (e.Code == "invalid_grant" || e.Code == "invalid_credentials"):
		return true
	default:
		return false
	}
}

// IsExpired reports whether err is an auth rejection caused by an expired token.
func IsExpired(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "expired")
}

func parseError(body []byte, status int) *Error {
	var payload struct {
		Code             json.RawMessage `json:"code"`
		ErrorCode        string          `json:"error_code"`
		Message          string          `json:"message"`
		Msg              string          `json:"msg"`
		Details          string          `json:"details"`
		Hint             string          `json:"hint"`
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &Error{Status: status, Message: msg}
	}
	// PostgREST sends a string code, GoTrue a numeric one next to error_code.
	code := payload.ErrorCode
	if code == "" {
		var s string
		if json.Unmarshal(payload.Code, &s) == nil {
			code = s
		}
	}
	if code == "" {
		code = payload.Error
	}
	msg := firstNonEmpty(payload.Message, payload.Msg, payload.ErrorDescription, payload.Error, http.StatusText(status))
	return &Error{Status: status, Code: code, Message: msg, Details: payload.Details, Hint: payload.Hint}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
