package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	apperrors "taskhub/internal/errors"
)

// decodeStrict totally deserializes the request body into T, rejecting any
// field outside T's declared set. This is how partial updates enforce their
// allow-list: unknown fields fail the decode instead of being filtered at
// runtime.
func decodeStrict[T any](c echo.Context) (*T, error) {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	var req T
	if err := dec.Decode(&req); err != nil {
		return nil, apperrors.ErrInvalidUpdates
	}
	return &req, nil
}
