package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tasknest/internal/model"
)

// TaskFilter selects which slice of a user's tasks a listing returns.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
	FilterOverdue   TaskFilter = "overdue"
)

// ParseTaskFilter maps a request value to a filter. Unknown values fall back
// to FilterAll.
func ParseTaskFilter(value string) TaskFilter {
	switch TaskFilter(value) {
	case FilterActive, FilterCompleted, FilterOverdue:
		return TaskFilter(value)
	}
	return FilterAll
}

// TaskRepository defines task persistence operations. All reads are scoped to
// the owning user; a lookup outside that scope reports record-not-found.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, task *model.Task) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error)
	ListByUser(ctx context.Context, userID uint, filter TaskFilter, now time.Time) ([]model.Task, error)
	ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Task, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountCompletedByUser(ctx context.Context, userID uint) (int64, error)
	CountOverdueByUser(ctx context.Context, userID uint, now time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update saves an existing task.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}

// FindByIDForUser finds a task by ID scoped to its owning user.
func (r *taskRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser lists a user's tasks matching the filter, newest first.
func (r *taskRepository) ListByUser(ctx context.Context, userID uint, filter TaskFilter, now time.Time) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch filter {
	case FilterActive:
		q = q.Where("completed = ?", false)
	case FilterCompleted:
		q = q.Where("completed = ?", true)
	case FilterOverdue:
		q = q.Where("completed = ? AND due_date < ?", false, now)
	}

	var tasks []model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListRecentByUser lists the user's most recently created tasks.
func (r *taskRepository) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByUser counts all tasks owned by a user.
func (r *taskRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountCompletedByUser counts the user's completed tasks.
func (r *taskRepository) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).Count(&count).Error
	return count, err
}

// CountOverdueByUser counts the user's incomplete tasks whose due date has passed.
func (r *taskRepository) CountOverdueByUser(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ? AND due_date < ?", userID, false, now).
		Count(&count).Error
	return count, err
}
