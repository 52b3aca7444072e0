package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"baldguard/internal/auth"
	apperrors "baldguard/internal/errors"
	"baldguard/internal/model"
	"baldguard/internal/service"
)

// WalletEnqueuer schedules background wallet provisioning.
type WalletEnqueuer interface {
	Enqueue(userID uint)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	wallets     WalletEnqueuer
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, wallets WalletEnqueuer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		wallets:     wallets,
	}
}

// GoogleAuthRequest represents a Google login request.
type GoogleAuthRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	IDToken     string `json:"id_token"`
}

// EmailAuthRequest represents an email login request.
type EmailAuthRequest struct {
	Email   string  `json:"email" validate:"required,email"`
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Picture *string `json:"picture"`
}

// AuthResponse is the login payload for both auth paths.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        *model.User `json:"user"`
}

// GoogleAuth godoc
// @Summary Authenticate with a Google OAuth token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google tokens"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleAuth(c echo.Context) error {
	var req GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body", "validation_error")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "validation_error")
	}

	result, err := h.authService.AuthenticateWithGoogle(c.Request().Context(), req.AccessToken, req.IDToken)
	if err != nil {
		// A rejected credential is 401; anything else (directory outage,
		// signing failure) stays a 500 and never reads as bad credentials.
		return apperrors.MapErrorToHTTP(err)
	}

	h.scheduleWallet(result)
	return c.JSON(http.StatusOK, loginResponse(result))
}

// EmailAuth godoc
// @Summary Authenticate with an email identity assertion
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailAuthRequest true "Identity claims"
// @Success 200 {object} AuthResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/email [post]
func (h *AuthHandler) EmailAuth(c echo.Context) error {
	var req EmailAuthRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body", "validation_error")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "validation_error")
	}

	result, err := h.authService.AuthenticateWithEmail(c.Request().Context(), req.Email, req.Name, req.Picture)
	if err != nil {
		// The email path carries no credential to reject, so every failure
		// here is infrastructure and surfaces as a 500.
		return apperrors.MapErrorToHTTP(err)
	}

	h.scheduleWallet(result)
	return c.JSON(http.StatusOK, loginResponse(result))
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := auth.CurrentClaims(c)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	user, err := h.userService.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		// A token whose subject no longer resolves is an authentication
		// failure, not a lookup miss.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewHTTPError(http.StatusUnauthorized, "user not found", "invalid_token")
		}
		return apperrors.MapErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Health godoc
// @Summary Authentication service health check
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/health [get]
func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "authentication",
	})
}

// scheduleWallet enqueues provisioning for first-time users only. The job is
// fire-and-forget: the login response never waits on it.
func (h *AuthHandler) scheduleWallet(result *service.AuthResult) {
	if result.IsNewUser && result.User.WalletAddress == nil {
		h.wallets.Enqueue(result.User.ID)
	}
}

func loginResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        result.User,
	}
}
