package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tasknest/internal/cache"
	apperrors "tasknest/internal/errors"
	"tasknest/internal/model"
	"tasknest/internal/repository"
)

const (
	// dashboardRecentLimit caps the task list on the dashboard summary.
	dashboardRecentLimit = 5
	statsCacheTTL        = 30 * time.Second
)

// TaskStats are aggregate counts over a user's full task set, regardless of
// any list filter in effect.
type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Overdue   int64 `json:"overdue"`
	// Active is total minus completed. An overdue incomplete task counts as
	// both active and overdue; the buckets are not mutually exclusive.
	Active         int64           `json:"active"`
	CompletionRate decimal.Decimal `json:"completion_rate"`
}

// TaskInput carries the user-editable task fields. The owning user is never
// part of the input; it is bound from the session by the caller.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Reminder    *time.Time
	Priority    model.Priority
	CategoryID  *uint
}

// TaskService exposes task listing, statistics and mutation operations.
type TaskService interface {
	List(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, TaskStats, error)
	Dashboard(ctx context.Context, userID uint) ([]model.Task, TaskStats, error)
	Get(ctx context.Context, userID, id uint) (*model.Task, error)
	Create(ctx context.Context, userID uint, input TaskInput) (*model.Task, error)
	Update(ctx context.Context, userID, id uint, input TaskInput) (*model.Task, error)
	Delete(ctx context.Context, userID, id uint) error
	ToggleCompletion(ctx context.Context, userID, id uint) (*model.Task, error)
	QuickAdd(ctx context.Context, userID uint, title string) (*model.Task, error)
}

type taskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewTaskService builds a TaskService with its repositories and cache.
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, cache *cache.Client) TaskService {
	return &taskService{taskRepo: taskRepo, categoryRepo: categoryRepo, cache: cache}
}

func (s *taskService) statsCacheKey(userID uint) string {
	return fmt.Sprintf("task_stats:%d", userID)
}

// List returns the user's tasks matching the filter, newest first, plus the
// stats over the full unfiltered set.
func (s *taskService) List(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, TaskStats, error) {
	now := time.Now()
	tasks, err := s.taskRepo.ListByUser(ctx, userID, filter, now)
	if err != nil {
		return nil, TaskStats{}, fmt.Errorf("list tasks: %w", err)
	}

	stats, err := s.stats(ctx, userID, now)
	if err != nil {
		return nil, TaskStats{}, err
	}
	return tasks, stats, nil
}

// Dashboard returns the five most recent tasks plus the stats.
func (s *taskService) Dashboard(ctx context.Context, userID uint) ([]model.Task, TaskStats, error) {
	tasks, err := s.taskRepo.ListRecentByUser(ctx, userID, dashboardRecentLimit)
	if err != nil {
		return nil, TaskStats{}, fmt.Errorf("list recent tasks: %w", err)
	}

	stats, err := s.stats(ctx, userID, time.Now())
	if err != nil {
		return nil, TaskStats{}, err
	}
	return tasks, stats, nil
}

// stats computes the aggregate counts, consulting the short-lived cache first.
// Overdue counts can lag by up to the cache TTL between mutations.
func (s *taskService) stats(ctx context.Context, userID uint, now time.Time) (TaskStats, error) {
	if data, _ := s.cache.Get(ctx, s.statsCacheKey(userID)); data != nil {
		var cached TaskStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	stats, err := s.computeStats(ctx, userID, now)
	if err != nil {
		return TaskStats{}, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, s.statsCacheKey(userID), payload, statsCacheTTL)
	}
	return stats, nil
}

func (s *taskService) computeStats(ctx context.Context, userID uint, now time.Time) (TaskStats, error) {
	total, err := s.taskRepo.CountByUser(ctx, userID)
	if err != nil {
		return TaskStats{}, fmt.Errorf("count tasks: %w", err)
	}
	completed, err := s.taskRepo.CountCompletedByUser(ctx, userID)
	if err != nil {
		return TaskStats{}, fmt.Errorf("count completed tasks: %w", err)
	}
	overdue, err := s.taskRepo.CountOverdueByUser(ctx, userID, now)
	if err != nil {
		return TaskStats{}, fmt.Errorf("count overdue tasks: %w", err)
	}

	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(completed * 100).
			Div(decimal.NewFromInt(total)).Round(2)
	}

	return TaskStats{
		Total:          total,
		Completed:      completed,
		Overdue:        overdue,
		Active:         total - completed,
		CompletionRate: rate,
	}, nil
}

// Get returns an owner-scoped task.
func (s *taskService) Get(ctx context.Context, userID, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// Create creates a task owned by the acting user.
func (s *taskService) Create(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	task, err := s.buildTask(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return task, nil
}

// Update applies the input to an owner-scoped task. CreatedAt is left alone.
func (s *taskService) Update(ctx context.Context, userID, id uint, input TaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildTask(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	task.Title = updated.Title
	task.Description = updated.Description
	task.DueDate = updated.DueDate
	task.Reminder = updated.Reminder
	task.Priority = updated.Priority
	task.CategoryID = updated.CategoryID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return task, nil
}

// Delete removes an owner-scoped task.
func (s *taskService) Delete(ctx context.Context, userID, id uint) error {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

// ToggleCompletion flips the completed flag and returns the updated task.
func (s *taskService) ToggleCompletion(ctx context.Context, userID, id uint) (*model.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return task, nil
}

// QuickAdd creates a minimal title-only task with defaults everywhere else.
func (s *taskService) QuickAdd(ctx context.Context, userID uint, title string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := &model.Task{
		UserID:   &userID,
		Title:    title,
		Priority: model.PriorityMedium,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("quick add task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return task, nil
}

// buildTask validates the input and assembles a task bound to the user.
func (s *taskService) buildTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	// A task may only reference a category owned by the same user.
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForUser(ctx, *input.CategoryID, userID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
	}

	return &model.Task{
		UserID:      &userID,
		CategoryID:  input.CategoryID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Reminder:    input.Reminder,
		Priority:    priority,
	}, nil
}

func (s *taskService) invalidateStats(ctx context.Context, userID uint) {
	_ = s.cache.Delete(ctx, s.statsCacheKey(userID))
}
