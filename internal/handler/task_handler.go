package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tasknest/internal/errors"
	"tasknest/internal/model"
	"tasknest/internal/repository"
	"tasknest/internal/service"
)

// formDateTimeLayout matches the value format of datetime-local form inputs.
const formDateTimeLayout = "2006-01-02T15:04"

// TaskHandler handles task list, dashboard and mutation endpoints.
type TaskHandler struct {
	taskService     service.TaskService
	categoryService service.CategoryService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService, categoryService service.CategoryService) *TaskHandler {
	return &TaskHandler{taskService: taskService, categoryService: categoryService}
}

// TaskRequest represents a task create/update form submission.
type TaskRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Description string `form:"description" json:"description"`
	DueDate     string `form:"due_date" json:"due_date"`
	Reminder    string `form:"reminder" json:"reminder"`
	Priority    string `form:"priority" json:"priority" validate:"omitempty,oneof=L M H"`
	CategoryID  string `form:"category" json:"category"`
}

// TaskPayload is a task as rendered to clients, with the derived overdue flag.
type TaskPayload struct {
	model.Task
	IsOverdue bool `json:"is_overdue"`
}

// StatsPayload carries the dashboard statistics with the completion rate
// fixed to two decimal places.
type StatsPayload struct {
	Total          int64  `json:"total"`
	Completed      int64  `json:"completed"`
	Overdue        int64  `json:"overdue"`
	Active         int64  `json:"active"`
	CompletionRate string `json:"completion_rate"`
}

func newTaskPayloads(tasks []model.Task, now time.Time) []TaskPayload {
	payloads := make([]TaskPayload, 0, len(tasks))
	for i := range tasks {
		payloads = append(payloads, TaskPayload{Task: tasks[i], IsOverdue: tasks[i].IsOverdue(now)})
	}
	return payloads
}

func newStatsPayload(stats service.TaskStats) StatsPayload {
	return StatsPayload{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Overdue:        stats.Overdue,
		Active:         stats.Active,
		CompletionRate: stats.CompletionRate.StringFixed(2),
	}
}

// List godoc
// @Summary List and filter tasks with stats
// @Tags tasks
// @Produce json
// @Param filter query string false "all, active, completed or overdue"
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID := CurrentUserID(c)
	filter := repository.ParseTaskFilter(c.QueryParam("filter"))

	tasks, stats, err := h.taskService.List(c.Request().Context(), userID, filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	categories, err := h.categoryService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tasks":      newTaskPayloads(tasks, time.Now()),
		"stats":      newStatsPayload(stats),
		"categories": categories,
		"filter":     string(filter),
		"flash":      TakeFlash(c),
	})
}

// Dashboard godoc
// @Summary Recent tasks and stats
// @Tags tasks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard [get]
func (h *TaskHandler) Dashboard(c echo.Context) error {
	userID := CurrentUserID(c)

	tasks, stats, err := h.taskService.Dashboard(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tasks": newTaskPayloads(tasks, time.Now()),
		"stats": newStatsPayload(stats),
		"flash": TakeFlash(c),
	})
}

// NewForm godoc
// @Summary Task creation form data
// @Tags tasks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /task/new [get]
func (h *TaskHandler) NewForm(c echo.Context) error {
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
// @Summary Create a task
// @Tags tasks
// @Accept x-www-form-urlencoded
// @Success 303
// @Failure 400 {object} map[string]interface{}
// @Router /task/new [post]
func (h *TaskHandler) Create(c echo.Context) error {
	input, badReq := h.bindTaskInput(c)
	if badReq != nil {
		return badReq
	}

	if _, err := h.taskService.Create(c.Request().Context(), CurrentUserID(c), *input); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	SetFlash(c, "success", "Task created successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// EditForm godoc
// @Summary Task edit form data
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/{id}/edit [get]
func (h *TaskHandler) EditForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), CurrentUserID(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	categories, err := h.categoryService.ListByUser(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"task":       TaskPayload{Task: *task, IsOverdue: task.IsOverdue(time.Now())},
		"categories": categories,
		"flash":      TakeFlash(c),
	})
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Accept x-www-form-urlencoded
// @Param id path int true "Task ID"
// @Success 303
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/{id}/edit [post]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	input, badReq := h.bindTaskInput(c)
	if badReq != nil {
		return badReq
	}

	if _, err := h.taskService.Update(c.Request().Context(), CurrentUserID(c), id, *input); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	SetFlash(c, "success", "Task updated successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// ConfirmDelete godoc
// @Summary Task delete confirmation data
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/{id}/delete [get]
func (h *TaskHandler) ConfirmDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), CurrentUserID(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 303
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/{id}/delete [post]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), CurrentUserID(c), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	SetFlash(c, "success", "Task deleted successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Toggle godoc
// @Summary Flip a task's completion flag
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Success 303
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/{id}/toggle [post]
func (h *TaskHandler) Toggle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleCompletion(c.Request().Context(), CurrentUserID(c), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if IsAJAX(c) {
		return c.JSON(http.StatusOK, echo.Map{
			"status":    "success",
			"completed": task.Completed,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// QuickAdd godoc
// @Summary Create a title-only task (AJAX only)
// @Tags tasks
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Task title"
// @Success 200 {object} map[string]interface{}
// @Router /task/quick_add [post]
func (h *TaskHandler) QuickAdd(c echo.Context) error {
	if !IsAJAX(c) {
		return c.JSON(http.StatusOK, echo.Map{"status": "error"})
	}

	task, err := h.taskService.QuickAdd(c.Request().Context(), CurrentUserID(c), c.FormValue("title"))
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"status": "error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":     "success",
		"task_id":    task.ID,
		"task_title": task.Title,
	})
}

// bindTaskInput binds and validates the task form, echoing submitted values
// on validation failure.
func (h *TaskHandler) bindTaskInput(c echo.Context) (*service.TaskInput, error) {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"errors": err.Error(),
			"values": req,
		})
	}

	dueDate, err := parseFormDateTime(req.DueDate)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"errors": "invalid due date",
			"values": req,
		})
	}
	reminder, err := parseFormDateTime(req.Reminder)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"errors": "invalid reminder",
			"values": req,
		})
	}

	var categoryID *uint
	if req.CategoryID != "" {
		id, err := strconv.ParseUint(req.CategoryID, 10, 32)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{
				"errors": "invalid category",
				"values": req,
			})
		}
		parsed := uint(id)
		categoryID = &parsed
	}

	return &service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Reminder:    reminder,
		Priority:    model.Priority(req.Priority),
		CategoryID:  categoryID,
	}, nil
}

func parseFormDateTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(formDateTimeLayout, value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
