package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.ClientProfile, *domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	logoutFn         func(ctx context.Context, refreshToken string) error
	meFn             func(ctx context.Context, p domain.Principal) (*ports.Me, error)
	updateMeFn       func(ctx context.Context, p domain.Principal, in ports.UpdateProfileInput) (*ports.Me, error)
	changePasswordFn func(ctx context.Context, p domain.Principal, in ports.ChangePasswordInput) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.ClientProfile, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAuthService) Me(ctx context.Context, p domain.Principal) (*ports.Me, error) {
	return s.meFn(ctx, p)
}

func (s *stubAuthService) UpdateMe(ctx context.Context, p domain.Principal, in ports.UpdateProfileInput) (*ports.Me, error) {
	return s.updateMeFn(ctx, p, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, p domain.Principal, in ports.ChangePasswordInput) error {
	return s.changePasswordFn(ctx, p, in)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, p domain.Principal) {
	c.Set("principal", p)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.ClientProfile, *domain.User, error) {
			if in.Email != "ana@example.com" || in.FirstName != "Ana" || in.PasswordConfirm != "Str0ngPass!" {
				t.Fatalf("unexpected input: %+v", in)
			}
			user := &domain.User{ID: "u-1", Email: in.Email, IsActive: true, DateJoined: time.Now()}
			return &domain.ClientProfile{ID: "cp-1", UserID: user.ID, FirstName: in.FirstName, LastName: in.LastName}, user, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/register",
		`{"email":"ana@example.com","password":"Str0ngPass!","password_confirm":"Str0ngPass!","first_name":"Ana","last_name":"Silva"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["first_name"] != "Ana" || resp["user_id"] != "u-1" {
		t.Fatalf("unexpected profile payload: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "ana@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/register", `{"email":"not-an-email"}`)

	err := h.Register(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"email", "password", "first_name", "last_name"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected error for %q, got %+v", field, verr.Fields)
		}
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.ClientProfile, *domain.User, error) {
			return nil, nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/register",
		`{"email":"bob@example.com","password":"x","password_confirm":"x","first_name":"Bob","last_name":"Lee"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			if email != "ana@example.com" || password != "secret" {
				t.Fatalf("unexpected credentials: %s/%s", email, password)
			}
			return &ports.TokenPair{Access: "acc", Refresh: "ref"}, &domain.User{ID: "u-1", Email: email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Access != "acc" || resp.Refresh != "ref" || resp.User.ID != "u-1" {
		t.Fatalf("unexpected login payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			if refreshToken != "ref" {
				t.Fatalf("unexpected token %q", refreshToken)
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/refresh", `{"refresh":"ref"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"access":"new-access"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, refreshToken string) error {
			revoked = refreshToken
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/logout", `{"refresh":"ref"}`)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || revoked != "ref" {
		t.Fatalf("expected 200 and revoked token, got %d / %q", rec.Code, revoked)
	}
}

func TestAuthHandler_Me_RequiresPrincipal(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodGet, "/api/me", "")

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	user := &domain.User{ID: "u-1", Email: "ana@example.com", IsActive: true}
	stub := &stubAuthService{
		meFn: func(ctx context.Context, p domain.Principal) (*ports.Me, error) {
			return &ports.Me{
				User:          p.User,
				Roles:         p.Roles,
				ClientProfile: &domain.ClientProfile{ID: "cp-1", UserID: p.User.ID, FirstName: "Ana"},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/api/me", "")
	withPrincipal(c, domain.Principal{User: user, Roles: []domain.RoleCode{domain.RoleClient}})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "ana@example.com" {
		t.Fatalf("unexpected email: %v", resp["email"])
	}
	roles, _ := resp["roles"].([]any)
	if len(roles) != 1 || roles[0] != "CLIENT" {
		t.Fatalf("unexpected roles: %v", resp["roles"])
	}
	if resp["staff_profile"] != nil {
		t.Fatalf("client must not carry a staff profile: %v", resp["staff_profile"])
	}
}

func TestAuthHandler_UpdateMe_BadDate(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPatch, "/api/me", `{"date_of_birth":"31/12/1990"}`)
	withPrincipal(c, domain.Principal{User: &domain.User{ID: "u-1"}})

	err := h.UpdateMe(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["date_of_birth"]; !ok {
		t.Fatalf("expected date_of_birth error, got %+v", verr.Fields)
	}
}

func TestAuthHandler_UpdateMe_ParsesDate(t *testing.T) {
	e := newTestEcho()
	var got ports.UpdateProfileInput
	stub := &stubAuthService{
		updateMeFn: func(ctx context.Context, p domain.Principal, in ports.UpdateProfileInput) (*ports.Me, error) {
			got = in
			return &ports.Me{User: p.User}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPatch, "/api/me", `{"date_of_birth":"1990-12-31","nationality":"ZA"}`)
	withPrincipal(c, domain.Principal{User: &domain.User{ID: "u-1"}})

	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.DateOfBirth == nil || got.DateOfBirth.Format(time.DateOnly) != "1990-12-31" {
		t.Fatalf("unexpected date: %v", got.DateOfBirth)
	}
	if got.Nationality == nil || *got.Nationality != "ZA" {
		t.Fatalf("unexpected nationality: %v", got.Nationality)
	}
	if got.FirstName != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, p domain.Principal, in ports.ChangePasswordInput) error {
			if in.OldPassword != "old" {
				return domain.NewValidationError("old_password", "Old password is incorrect.")
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/me/change-password",
		`{"old_password":"old","new_password":"N3wPass!!","new_password_confirm":"N3wPass!!"}`)
	withPrincipal(c, domain.Principal{User: &domain.User{ID: "u-1"}})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
