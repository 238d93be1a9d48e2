package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tasknest/internal/service"
	"tasknest/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a signup form submission.
type RegisterRequest struct {
	Username        string `form:"username" json:"username" validate:"required,max=150"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest represents a login form submission.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// RegisterForm godoc
// @Summary Registration page data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": TakeFlash(c)})
}

// Register godoc
// @Summary Sign up and auto-login
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password confirmation"
// @Success 303
// @Failure 400 {object} map[string]interface{}
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		// Echo the submitted values so the form can re-render them.
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": err.Error(),
			"values": echo.Map{"username": req.Username, "email": req.Email},
		})
	}

	_, token, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"errors": err.Error(),
				"values": echo.Map{"username": req.Username, "email": req.Email},
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to register")
	}

	setSessionCookie(c, token)
	SetFlash(c, "success", "Account created successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// LoginForm godoc
// @Summary Login page data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flash": TakeFlash(c)})
}

// Login godoc
// @Summary Authenticate and start a session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 303
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		SetFlash(c, "error", "Please provide both username and password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	_, token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// Any failure, expected or not, lands on the same generic message.
		SetFlash(c, "error", "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	setSessionCookie(c, token)
	SetFlash(c, "success", "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout godoc
// @Summary End the session
// @Tags auth
// @Success 303
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID := CurrentSessionID(c); sessionID != "" {
		_ = h.authService.Logout(c.Request().Context(), sessionID)
	}
	clearSessionCookie(c)
	SetFlash(c, "success", "Logged out successfully!")
	return c.Redirect(http.StatusSeeOther, "/login")
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(session.Expiry),
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
