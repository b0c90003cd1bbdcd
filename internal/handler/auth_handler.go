package handler

import (
	"github.com/labstack/echo/v4"

	"trivedia/internal/auth"
	"trivedia/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register godoc
// @Summary Register a new account
// @Description New accounts always get the viewer role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 201 {object} Response{data=service.TokenPair}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 500 {object} apperrors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	pair, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return created(c, "User registered successfully", pair)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} Response{data=service.TokenPair}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	pair, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "Login successful", pair)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Response{data=service.TokenPair}
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, pair)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented access token and, when given, the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RefreshRequest false "Refresh token to revoke"
// @Success 200 {object} Response
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), auth.CurrentClaims(c), req.RefreshToken); err != nil {
		return err
	}
	return message(c, "Logged out successfully")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=map[string]model.PublicUser}
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	profile := auth.CurrentUser(c).PublicProfile()
	return ok(c, echo.Map{"user": profile})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} Response{data=map[string]model.PublicUser}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var in service.ProfileInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(c.Request().Context(), auth.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "Profile updated successfully", echo.Map{"user": user})
}

// ChangePassword godoc
// @Summary Change own password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PasswordInput true "Current and new password"
// @Success 200 {object} Response
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var in service.PasswordInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), auth.CurrentUser(c).ID, in); err != nil {
		return err
	}
	return message(c, "Password updated successfully")
}
