package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
)

// ContextUserKey is the echo context key under which the authentication
// middleware stores the resolved caller.
const ContextUserKey = "currentUser"

// currentUser returns the resolved caller identity set by the auth
// middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}
