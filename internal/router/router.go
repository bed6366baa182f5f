package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/handler"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// Register wires routes and middleware. Authentication is explicit
// sequential composition: the JWT middleware verifies signature and expiry,
// ResolveUser maps the subject to a stored user, and RequireRole gates the
// admin surface. Each step short-circuits with its own status.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.Response{
			Status:  "success",
			Message: "API is running",
			Data:    echo.Map{"timestamp": time.Now().UTC().Format(time.RFC3339)},
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes: every failure collapses to one generic 401.
	secured := e.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
			ErrorHandler: func(c echo.Context, err error) error {
				return unauthenticated(c)
			},
		}),
		ResolveUser(jwtService, userRepo),
	)

	secured.GET("/auth/me", authHandler.Me)
	secured.PATCH("/auth/me", authHandler.UpdateMe)

	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks", taskHandler.List)
	secured.GET("/tasks/stats", taskHandler.Stats)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.PATCH("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
	secured.POST("/tasks/:id/comments", taskHandler.AddComment)

	admin := secured.Group("/admin", RequireRole(model.RoleAdmin))
	admin.GET("/users", authHandler.ListUsers)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
