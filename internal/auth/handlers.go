package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/supabase"
)

// PasswordSigner exchanges credentials for a session.
type PasswordSigner interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
}

// Handler exposes the login endpoint.
type Handler struct {
	Signer   PasswordSigner
	Validate *validator.Validate
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Signer == nil {
		common.JSONError(w, http.StatusInternalServerError, "AUTH_NOT_CONFIGURED", "auth not configured", nil)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if err := h.validator().Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "invalid email or password", validationDetails(err))
		return
	}

	session, err := h.Signer.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, supabase.ErrUnauthorized) {
			common.Failure(w, http.StatusUnauthorized, "Invalid login credentials", nil)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		common.Failure(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	result := make(map[string]any)
	for k, v := range session.User.IdentityData() {
		result[k] = v
	}
	result["access_token"] = session.AccessToken
	result["refresh_token"] = session.RefreshToken
	result["token_type"] = session.TokenType
	common.Success(w, http.StatusOK, "Login successful", result)
}

func (h *Handler) validator() *validator.Validate {
	if h.Validate != nil {
		return h.Validate
	}
	return defaultValidate
}

var defaultValidate = NewValidator()

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationDetails(err error) map[string]string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return nil
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field()] = f.Tag()
	}
	return out
}
