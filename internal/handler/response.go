package handler

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "taskhub/internal/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string                 `json:"status"`
	Data    interface{}            `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// success writes a success envelope.
func success(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, Response{Status: "success", Data: data})
}

// successMessage writes a success envelope carrying only a message.
func successMessage(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: "success", Message: message})
}

// failure maps a domain error to its HTTP shape. Store failures log full
// detail server-side and surface a generic message.
func failure(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	return c.JSON(httpErr.StatusCode, Response{
		Status:  "error",
		Message: httpErr.Message,
		Errors:  httpErr.Fields,
	})
}

// badRequest writes a 400 error envelope with a plain message.
func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: message})
}

// validationFailure writes a 400 envelope with per-field messages drawn from
// validator tags.
func validationFailure(c echo.Context, err error) error {
	fields := []apperrors.FieldError{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   ve.Field(),
				Message: "Invalid value for " + ve.Field(),
			})
		}
	}
	return c.JSON(http.StatusBadRequest, Response{
		Status:  "error",
		Message: "Validation failed",
		Errors:  fields,
	})
}
