package handler

import (
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middleware for the authenticated request.
const (
	ContextUserIDKey    = "auth_user_id"
	ContextSessionIDKey = "auth_session_id"
	ContextUsernameKey  = "auth_username"
)

// CurrentUserID returns the acting user bound to the request by the auth
// middleware. Handlers never trust a client-supplied owner.
func CurrentUserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserIDKey).(uint)
	return id
}

// CurrentSessionID returns the session ID bound to the request.
func CurrentSessionID(c echo.Context) string {
	id, _ := c.Get(ContextSessionIDKey).(string)
	return id
}

// IsAJAX reports whether the request was issued by script. Script-issued
// requests get JSON instead of a redirect for the same logical action.
func IsAJAX(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
