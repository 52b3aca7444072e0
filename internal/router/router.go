package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"baldguard/internal/auth"
	"baldguard/internal/config"
	apperrors "baldguard/internal/errors"
	"baldguard/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	detectorHandler *handler.DetectorHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/", root)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.GET("/auth/health", authHandler.Health)
	api.POST("/auth/google", authHandler.GoogleAuth)
	api.POST("/auth/email", authHandler.EmailAuth)

	// Secured routes (require a bearer session token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: jwtErrorHandler,
	}))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/detect-baldness", detectorHandler.Detect)
	secured.POST("/detect-baldness/stream", detectorHandler.DetectStream)
}

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Baldness Detection API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":   "/api/v1/auth",
			"health": "/api/v1/auth/health",
		},
	})
}

// jwtErrorHandler renders every middleware rejection, missing header
// included, as a 401 with the standard envelope.
func jwtErrorHandler(c echo.Context, err error) error {
	msg := "invalid or missing authentication token"
	errType := "invalid_token"
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		msg = "authentication token expired"
		errType = "expired_token"
	case errors.Is(err, jwt.ErrTokenMalformed):
		msg = "malformed authentication token"
		errType = "malformed_token"
	}
	return apperrors.NewHTTPError(http.StatusUnauthorized, msg, errType)
}

// HTTPErrorHandler converts any error escaping a handler into the standard
// error envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := apperrors.NewErrorResponse(status, "internal server error", "internal_error")

	var appErr *apperrors.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		resp = appErr.ToErrorResponse()
	case errors.As(err, &echoErr):
		status = echoErr.Code
		resp = apperrors.NewErrorResponse(status, fmt.Sprintf("%v", echoErr.Message), typeForStatus(status))
	}

	if jsonErr := c.JSON(status, resp); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

func typeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	default:
		return "internal_error"
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
