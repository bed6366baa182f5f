package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the allow-listed profile fields.
type UpdateProfileRequest struct {
	Name        *string            `json:"name"`
	Password    *string            `json:"password" validate:"omitempty,min=6"`
	Preferences *model.Preferences `json:"preferences"`
}

// ForgotPasswordRequest carries the email to send reset instructions to.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries a reset token and replacement password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AuthData is the data payload of register and login responses.
type AuthData struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusCreated, AuthData{Token: token, User: user})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 500 {object} Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, AuthData{Token: token, User: user})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"user": user})
}

// UpdateMe godoc
// @Summary Update profile fields
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	req, err := decodeStrict[UpdateProfileRequest](c)
	if err != nil {
		return failure(c, err)
	}
	if err := c.Validate(req); err != nil {
		return validationFailure(c, err)
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Name:        req.Name,
		Password:    req.Password,
		Preferences: req.Preferences,
	})
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, echo.Map{"user": updated})
}

// ForgotPassword godoc
// @Summary Request password reset instructions
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return failure(c, err)
	}

	return successMessage(c, http.StatusOK, "Password reset instructions sent to email")
}

// ResetPassword godoc
// @Summary Reset password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return failure(c, err)
	}

	return successMessage(c, http.StatusOK, "Password reset successful")
}

// ListUsers godoc
// @Summary List all users (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /admin/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"users": users})
}
