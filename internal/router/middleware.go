package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/handler"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// unauthenticated is the single response for every authentication failure.
// Missing, malformed, expired, and unknown-subject tokens are deliberately
// indistinguishable to callers.
func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, handler.Response{
		Status:  "error",
		Message: apperrors.ErrUnauthenticated.Error(),
	})
}

// ResolveUser returns middleware that resolves the bearer token to a stored
// user and places it on the request context. It runs after the JWT
// middleware has verified signature and expiry.
func ResolveUser(jwtService *auth.JWTService, userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return unauthenticated(c)
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return unauthenticated(c)
			}

			user, err := userRepo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return unauthenticated(c)
			}

			c.Set(handler.ContextUserKey, user)
			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects callers without the given
// role. It assumes ResolveUser already ran; a missing identity is an
// authentication failure, a wrong role an authorization one.
func RequireRole(role model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(handler.ContextUserKey).(*model.User)
			if !ok || user == nil {
				return unauthenticated(c)
			}
			if user.Role != role {
				return c.JSON(http.StatusForbidden, handler.Response{
					Status:  "error",
					Message: apperrors.ErrForbidden.Error(),
				})
			}
			return next(c)
		}
	}
}
