package controllers

import (
	"net/http"
	"strings"

	"github.com/tokopintar/catalog-backend/api/responses"
	"github.com/tokopintar/catalog-backend/api/validators"
	"github.com/tokopintar/catalog-backend/internal/identity"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
	"github.com/tokopintar/catalog-backend/pkg/logger"
)

type authSuccessResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	AccessToken string            `json:"access_token"`
	User        *identity.UserDTO `json:"user"`
}

type sessionResponse struct {
	Success bool              `json:"success"`
	User    *identity.UserDTO `json:"user"`
}

type signOutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthSignUp registers a new account and starts a session.
func AuthSignUp(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body identity.SignUpRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignUp(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, authSuccessResponse{
			Success:     true,
			Message:     "Account created successfully",
			AccessToken: result.AccessToken,
			User:        result.User,
		})
	}
}

// AuthSignIn exchanges credentials for an access token.
func AuthSignIn(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body identity.SignInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignIn(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, authSuccessResponse{
			Success:     true,
			Message:     "Signed in successfully",
			AccessToken: result.AccessToken,
			User:        result.User,
		})
	}
}

// AuthSignOut revokes the caller's session.
func AuthSignOut(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		token := bearerTokenFromRequest(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.SignOut(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, signOutResponse{
			Success: true,
			Message: "Signed out successfully",
		})
	}
}

// AuthSession returns the user bound to the presented token.
func AuthSession(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		token := bearerTokenFromRequest(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := svc.Session(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionResponse{Success: true, User: user})
	}
}

func bearerTokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
