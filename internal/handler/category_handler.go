package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tasknest/internal/errors"
	"tasknest/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents a category creation form submission.
type CategoryRequest struct {
	Name  string `form:"name" json:"name" validate:"required,max=50"`
	Color string `form:"color" json:"color" validate:"omitempty,hexcolor"`
}

// NewForm godoc
// @Summary Category creation form data
// @Tags categories
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /category/new [get]
func (h *CategoryHandler) NewForm(c echo.Context) error {
	categories, err := h.categoryService.ListByUser(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"categories": categories,
		"flash":      TakeFlash(c),
	})
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept x-www-form-urlencoded
// @Success 303
// @Failure 400 {object} map[string]interface{}
// @Router /category/new [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"errors": err.Error(),
			"values": req,
		})
	}

	if _, err := h.categoryService.Create(c.Request().Context(), CurrentUserID(c), req.Name, req.Color); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	SetFlash(c, "success", "Category created successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}
