package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tasknest/internal/errors"
	"tasknest/internal/service"
)

// ProfileHandler handles profile view and update endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest represents the non-file fields of the profile form.
type ProfileRequest struct {
	Username     string `form:"username" json:"username" validate:"omitempty,max=150"`
	Email        string `form:"email" json:"email" validate:"omitempty,email"`
	Bio          string `form:"bio" json:"bio" validate:"max=500"`
	Phone        string `form:"phone" json:"phone" validate:"max=20"`
	Location     string `form:"location" json:"location" validate:"max=100"`
	RemoveAvatar bool   `form:"remove_avatar" json:"remove_avatar"`
}

// Edit godoc
// @Summary Profile edit form data
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile [get]
func (h *ProfileHandler) Edit(c echo.Context) error {
	user, profile, err := h.profileService.Get(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    user,
		"profile": profile,
		"flash":   TakeFlash(c),
	})
}

// Update godoc
// @Summary Update profile, optionally replacing or removing the avatar
// @Tags profile
// @Accept multipart/form-data
// @Success 303
// @Failure 400 {object} map[string]interface{}
// @Router /profile [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"errors": err.Error(),
			"values": req,
		})
	}

	input := service.ProfileInput{
		Username:     req.Username,
		Email:        req.Email,
		Bio:          req.Bio,
		Phone:        req.Phone,
		Location:     req.Location,
		RemoveAvatar: req.RemoveAvatar,
	}

	// The avatar file is optional on every submit.
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
		}
		defer file.Close()
		input.Avatar = file
		input.AvatarName = fileHeader.Filename
	}

	if _, err := h.profileService.Update(c.Request().Context(), CurrentUserID(c), input); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	SetFlash(c, "success", "Your profile has been updated!")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

// View godoc
// @Summary Read-only profile display data
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile_view [get]
func (h *ProfileHandler) View(c echo.Context) error {
	user, profile, err := h.profileService.Get(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    user,
		"profile": profile,
	})
}
