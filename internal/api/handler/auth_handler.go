package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
)

// AuthHandler handles HTTP requests for the credential lifecycle.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request types ---

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register creates a new account and returns its first token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Response[ports.AuthResponse]
// @Failure      409   {object}  Response[any]
// @Failure      422   {object}  Response[any]
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, clientIP(c))
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, res)
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Response[ports.AuthResponse]
// @Failure      401   {object}  Response[any]
// @Failure      422   {object}  Response[any]
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, clientIP(c))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, res)
}

// Refresh rotates a refresh token and returns a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  Response[ports.AuthResponse]
// @Failure      401   {object}  Response[any]
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken, clientIP(c))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, res)
}

// Revoke retires a refresh token (logout).
//
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      refreshRequest  true  "Refresh token to revoke"
// @Success      200   {object}  Response[any]
// @Failure      401   {object}  Response[any]
// @Failure      404   {object}  Response[any]
// @Router       /api/v1/auth/revoke [post]
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Revoke(c.Request().Context(), req.RefreshToken, clientIP(c))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, res)
}

// RevokeAll retires every active refresh token of the caller.
//
// @Summary      Revoke all refresh tokens
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  Response[any]
// @Failure      401   {object}  Response[any]
// @Router       /api/v1/auth/revoke-all [post]
func (h *AuthHandler) RevokeAll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	res, err := h.authService.RevokeAll(c.Request().Context(), userID, clientIP(c))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, res)
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  Response[ports.UserInfo]
// @Failure      401   {object}  Response[any]
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	res, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, res)
}
