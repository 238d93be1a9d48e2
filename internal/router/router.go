package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tasknest/internal/config"
	"tasknest/internal/handler"
	"tasknest/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessionStore session.Store,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	categoryHandler *handler.CategoryHandler,
	profileHandler *handler.ProfileHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)

	// Secured routes: session token from the cookie, then the redis-backed
	// session store so a logged-out token stops working immediately.
	secured := e.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.SessionSecret),
			TokenLookup: "cookie:" + session.CookieName,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(session.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return rejectUnauthenticated(c)
			},
		}),
		requireLiveSession(sessionStore),
	)

	secured.GET("/", taskHandler.List)
	secured.GET("/dashboard", taskHandler.Dashboard)

	secured.GET("/task/new", taskHandler.NewForm)
	secured.POST("/task/new", taskHandler.Create)
	secured.GET("/task/:id/edit", taskHandler.EditForm)
	secured.POST("/task/:id/edit", taskHandler.Update)
	secured.GET("/task/:id/delete", taskHandler.ConfirmDelete)
	secured.POST("/task/:id/delete", taskHandler.Delete)
	secured.POST("/task/:id/toggle", taskHandler.Toggle)
	secured.POST("/task/quick_add", taskHandler.QuickAdd)

	secured.GET("/category/new", categoryHandler.NewForm)
	secured.POST("/category/new", categoryHandler.Create)

	secured.POST("/logout", authHandler.Logout)

	secured.GET("/profile", profileHandler.Edit)
	secured.POST("/profile", profileHandler.Update)
	secured.GET("/profile_view", profileHandler.View)
}

// requireLiveSession checks the session store and binds the acting user to
// the request context.
func requireLiveSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return rejectUnauthenticated(c)
			}
			claims, ok := token.Claims.(*session.Claims)
			if !ok {
				return rejectUnauthenticated(c)
			}
			if _, err := store.Get(c.Request().Context(), claims.ID); err != nil {
				return rejectUnauthenticated(c)
			}

			c.Set(handler.ContextUserIDKey, claims.UserID)
			c.Set(handler.ContextSessionIDKey, claims.ID)
			c.Set(handler.ContextUsernameKey, claims.Username)
			return next(c)
		}
	}
}

// rejectUnauthenticated sends browsers to the login page and script callers a 401.
func rejectUnauthenticated(c echo.Context) error {
	if handler.IsAJAX(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.Redirect(http.StatusFound, "/login")
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
