package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tokopintar/catalog-backend/internal/identity"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
)

type stubIdentityService struct {
	signUpResult *identity.AuthResponse
	signUpErr    error
	signInResult *identity.AuthResponse
	signInErr    error
	signOutErr   error
	sessionUser  *identity.UserDTO
	sessionErr   error
	signedOut    []string
}

func (s *stubIdentityService) SignUp(_ context.Context, _ identity.SignUpRequest) (*identity.AuthResponse, error) {
	return s.signUpResult, s.signUpErr
}

func (s *stubIdentityService) SignIn(_ context.Context, _ identity.SignInRequest) (*identity.AuthResponse, error) {
	return s.signInResult, s.signInErr
}

func (s *stubIdentityService) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return s.signOutErr
}

func (s *stubIdentityService) Session(_ context.Context, _ string) (*identity.UserDTO, error) {
	return s.sessionUser, s.sessionErr
}

func (s *stubIdentityService) Resolve(_ context.Context, _ string) (*identity.Identity, error) {
	panic("unimplemented")
}

func sampleUser() *identity.UserDTO {
	return &identity.UserDTO{
		ID:    uuid.New(),
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  "member",
	}
}

func TestAuthSignUp(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubIdentityService{
			signUpResult: &identity.AuthResponse{AccessToken: "token-1", User: sampleUser()},
		}
		body := `{"name":"Ada","email":"ada@example.com","password":"sup3r-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-up", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthSignUp(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["access_token"] != "token-1" {
			t.Fatalf("expected access token, got %v", resp["access_token"])
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		body := `{"name":"Ada","email":"not-an-email","password":"sup3r-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-up", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthSignUp(&stubIdentityService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		stub := &stubIdentityService{signUpErr: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
		body := `{"name":"Ada","email":"ada@example.com","password":"sup3r-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-up", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthSignUp(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestAuthSignIn(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubIdentityService{
			signInResult: &identity.AuthResponse{AccessToken: "token-2", User: sampleUser()},
		}
		body := `{"email":"ada@example.com","password":"sup3r-secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthSignIn(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		stub := &stubIdentityService{signInErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
		body := `{"email":"ada@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthSignIn(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["message"] != "invalid credentials" {
			t.Fatalf("unexpected message %v", resp["message"])
		}
	})
}

func TestAuthSignOut(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubIdentityService{}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		req.Header.Set("Authorization", "Bearer token-3")
		rec := httptest.NewRecorder()
		AuthSignOut(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(stub.signedOut) != 1 || stub.signedOut[0] != "token-3" {
			t.Fatalf("expected sign-out with token-3, got %v", stub.signedOut)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		rec := httptest.NewRecorder()
		AuthSignOut(&stubIdentityService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthSession(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		user := sampleUser()
		stub := &stubIdentityService{sessionUser: user}
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.Header.Set("Authorization", "Bearer token-4")
		rec := httptest.NewRecorder()
		AuthSession(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Success bool              `json:"success"`
			User    *identity.UserDTO `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.User == nil || resp.User.ID != user.ID {
			t.Fatalf("unexpected session response %+v", resp)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		stub := &stubIdentityService{sessionErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")}
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.Header.Set("Authorization", "Bearer token-5")
		rec := httptest.NewRecorder()
		AuthSession(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
