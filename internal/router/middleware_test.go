package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	"taskhub/internal/handler"
	"taskhub/internal/model"
)

// stubUserRepo serves a single user by id.
type stubUserRepo struct {
	user *model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) List(ctx context.Context) ([]model.User, error)     { return nil, nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func runResolveUser(t *testing.T, jwtService *auth.JWTService, repo *stubUserRepo, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}

	err := ResolveUser(jwtService, repo)(next)(c)
	assert.NoError(t, err)
	return rec, reached
}

func TestResolveUser(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	user := &model.User{ID: uuid.New(), Email: "test@example.com", Role: model.RoleUser}
	repo := &stubUserRepo{user: user}

	t.Run("valid token resolves user", func(t *testing.T) {
		token, err := jwtService.IssueToken(user.ID)
		assert.NoError(t, err)

		rec, reached := runResolveUser(t, jwtService, repo, "Bearer "+token)
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	// Missing header, malformed token, and unknown subject must all produce
	// the same response.
	t.Run("failures are indistinguishable", func(t *testing.T) {
		unknownToken, err := jwtService.IssueToken(uuid.New())
		assert.NoError(t, err)

		headers := []string{"", "Bearer garbage", "Bearer " + unknownToken}
		var bodies []string
		for _, h := range headers {
			rec, reached := runResolveUser(t, jwtService, repo, h)
			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		}
		assert.Equal(t, bodies[0], bodies[1])
		assert.Equal(t, bodies[1], bodies[2])
	})
}

func TestRequireRole(t *testing.T) {
	run := func(user *model.User) (*httptest.ResponseRecorder, bool) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(handler.ContextUserKey, user)
		}

		reached := false
		next := func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		}
		_ = RequireRole(model.RoleAdmin)(next)(c)
		return rec, reached
	}

	t.Run("admin passes", func(t *testing.T) {
		rec, reached := run(&model.User{ID: uuid.New(), Role: model.RoleAdmin})
		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		rec, reached := run(&model.User{ID: uuid.New(), Role: model.RoleUser})
		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing identity unauthorized", func(t *testing.T) {
		rec, reached := run(nil)
		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
