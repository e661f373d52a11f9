package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a client account.
//
// @Summary      Register a new client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{ClientProfile: profile, User: toUserResponse(user, nil)})
}

// Login exchanges credentials for an access and refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Access: pair.Access, Refresh: pair.Refresh, User: toUserResponse(user, nil)})
}

// Refresh issues a new access token for a live refresh token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  accessResponse
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessResponse{Access: access})
}

// Logout revokes a refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out."})
}

// Setup2FA is a placeholder until TOTP enrolment exists.
//
// @Summary      2FA setup (not implemented)
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/auth/2fa/setup [get]
func (h *AuthHandler) Setup2FA(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "2FA setup not yet implemented."})
}

// Verify2FA is a placeholder until TOTP verification exists.
//
// @Summary      2FA verify (not implemented)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verify2FARequest  false  "TOTP code"
// @Success      200   {object}  messageResponse
// @Router       /api/auth/2fa/verify [post]
func (h *AuthHandler) Verify2FA(c echo.Context) error {
	var req verify2FARequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "2FA verification not yet implemented."})
}

// Me returns the caller's account, roles and profile.
//
// @Summary      Current user
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	me, err := h.authService.Me(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeResponse(me))
}

// UpdateMe partially updates the caller's client or staff profile.
//
// @Summary      Update current user profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateMeRequest  true  "Fields to change"
// @Success      200   {object}  meResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateMeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := toUpdateProfileInput(req)
	if err != nil {
		return err
	}

	me, err := h.authService.UpdateMe(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeResponse(me))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/me/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = h.authService.ChangePassword(c.Request().Context(), p, ports.ChangePasswordInput{
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully."})
}
