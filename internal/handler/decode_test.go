package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "taskhub/internal/errors"
)

func testContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/tasks/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestDecodeStrict(t *testing.T) {
	t.Run("allow-listed fields decode", func(t *testing.T) {
		c := testContext(`{"title":"New title","isArchived":true}`)

		req, err := decodeStrict[UpdateTaskRequest](c)

		assert.NoError(t, err)
		assert.Equal(t, "New title", *req.Title)
		assert.True(t, *req.IsArchived)
		assert.Nil(t, req.Status)
	})

	t.Run("field outside the allow-list is rejected", func(t *testing.T) {
		c := testContext(`{"title":"New title","createdBy":"someone-else"}`)

		_, err := decodeStrict[UpdateTaskRequest](c)

		assert.Equal(t, apperrors.ErrInvalidUpdates, err)
	})

	t.Run("completedAt cannot be set directly", func(t *testing.T) {
		c := testContext(`{"completedAt":"2024-01-01T00:00:00Z"}`)

		_, err := decodeStrict[UpdateTaskRequest](c)

		assert.Equal(t, apperrors.ErrInvalidUpdates, err)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		c := testContext(`{"title":`)

		_, err := decodeStrict[UpdateTaskRequest](c)

		assert.Error(t, err)
	})
}
