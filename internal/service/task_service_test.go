package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "tasknest/internal/errors"
	"tasknest/internal/model"
	"tasknest/internal/repository"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uint, filter repository.TaskFilter, now time.Time) ([]model.Task, error) {
	args := m.Called(ctx, userID, filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Task, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountOverdueByUser(ctx context.Context, userID uint, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Category, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func newTaskService(taskRepo *MockTaskRepository, categoryRepo *MockCategoryRepository) TaskService {
	// nil cache behaves like an always-empty cache, keeping tests deterministic
	return NewTaskService(taskRepo, categoryRepo, nil)
}

func setupCounts(m *MockTaskRepository, total, completed, overdue int64) {
	m.On("CountByUser", mock.Anything, uint(1)).Return(total, nil)
	m.On("CountCompletedByUser", mock.Anything, uint(1)).Return(completed, nil)
	m.On("CountOverdueByUser", mock.Anything, uint(1), mock.Anything).Return(overdue, nil)
}

func TestTaskService_Stats(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		completed    int64
		overdue      int64
		expectActive int64
		expectRate   string
	}{
		{
			name:  "no tasks avoids division by zero",
			total: 0, completed: 0, overdue: 0,
			expectActive: 0,
			expectRate:   "0.00",
		},
		{
			name:  "one of four completed",
			total: 4, completed: 1, overdue: 0,
			expectActive: 3,
			expectRate:   "25.00",
		},
		{
			name:  "overdue tasks also count as active",
			total: 3, completed: 1, overdue: 2,
			expectActive: 2,
			expectRate:   "33.33",
		},
		{
			name:  "all completed",
			total: 5, completed: 5, overdue: 0,
			expectActive: 0,
			expectRate:   "100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(MockTaskRepository)
			taskRepo.On("ListByUser", mock.Anything, uint(1), repository.FilterAll, mock.Anything).
				Return([]model.Task{}, nil)
			setupCounts(taskRepo, tt.total, tt.completed, tt.overdue)

			svc := newTaskService(taskRepo, new(MockCategoryRepository))
			_, stats, err := svc.List(context.Background(), 1, repository.FilterAll)

			assert.NoError(t, err)
			assert.Equal(t, tt.total, stats.Total)
			assert.Equal(t, tt.completed, stats.Completed)
			assert.Equal(t, tt.overdue, stats.Overdue)
			assert.Equal(t, tt.expectActive, stats.Active)
			assert.Equal(t, tt.expectRate, stats.CompletionRate.StringFixed(2))
			assert.Equal(t, stats.Total, stats.Active+stats.Completed)
			taskRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List_PassesFilterThrough(t *testing.T) {
	for _, filter := range []repository.TaskFilter{
		repository.FilterAll,
		repository.FilterActive,
		repository.FilterCompleted,
		repository.FilterOverdue,
	} {
		t.Run(string(filter), func(t *testing.T) {
			taskRepo := new(MockTaskRepository)
			taskRepo.On("ListByUser", mock.Anything, uint(1), filter, mock.Anything).
				Return([]model.Task{{ID: 7, Title: "Buy milk"}}, nil)
			setupCounts(taskRepo, 1, 0, 1)

			svc := newTaskService(taskRepo, new(MockCategoryRepository))
			tasks, _, err := svc.List(context.Background(), 1, filter)

			assert.NoError(t, err)
			assert.Len(t, tasks, 1)
			taskRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Dashboard_CapsRecentTasks(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	taskRepo.On("ListRecentByUser", mock.Anything, uint(1), 5).
		Return([]model.Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}, nil)
	setupCounts(taskRepo, 9, 4, 1)

	svc := newTaskService(taskRepo, new(MockCategoryRepository))
	tasks, stats, err := svc.Dashboard(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, tasks, 5)
	assert.Equal(t, int64(9), stats.Total)
	assert.Equal(t, "44.44", stats.CompletionRate.StringFixed(2))
	taskRepo.AssertExpectations(t)
}

func TestTaskService_Get_OwnerScoped(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	// User 2 asking for user 1's task: the scoped lookup misses.
	taskRepo.On("FindByIDForUser", mock.Anything, uint(10), uint(2)).
		Return(nil, gorm.ErrRecordNotFound)

	svc := newTaskService(taskRepo, new(MockCategoryRepository))
	task, err := svc.Get(context.Background(), 2, 10)

	assert.Nil(t, task)
	assert.Equal(t, apperrors.ErrTaskNotFound, err)
	taskRepo.AssertExpectations(t)
}

func TestTaskService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         TaskInput
		setupMock     func(*MockTaskRepository, *MockCategoryRepository)
		expectedError error
	}{
		{
			name:  "binds acting user as owner",
			input: TaskInput{Title: "Buy milk", Priority: model.PriorityLow},
			setupMock: func(mt *MockTaskRepository, mc *MockCategoryRepository) {
				mt.On("Create", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
					return task.UserID != nil && *task.UserID == 1 && task.Title == "Buy milk"
				})).Return(nil)
			},
		},
		{
			name:          "empty title rejected",
			input:         TaskInput{Title: "   "},
			setupMock:     func(mt *MockTaskRepository, mc *MockCategoryRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
		{
			name:          "unknown priority rejected",
			input:         TaskInput{Title: "Buy milk", Priority: "X"},
			setupMock:     func(mt *MockTaskRepository, mc *MockCategoryRepository) {},
			expectedError: apperrors.ErrInvalidPriority,
		},
		{
			name:  "defaults to medium priority",
			input: TaskInput{Title: "Buy milk"},
			setupMock: func(mt *MockTaskRepository, mc *MockCategoryRepository) {
				mt.On("Create", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
					return task.Priority == model.PriorityMedium
				})).Return(nil)
			},
		},
		{
			name:  "foreign category rejected as not found",
			input: TaskInput{Title: "Buy milk", CategoryID: uintPtr(9)},
			setupMock: func(mt *MockTaskRepository, mc *MockCategoryRepository) {
				mc.On("FindByIDForUser", mock.Anything, uint(9), uint(1)).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(MockTaskRepository)
			categoryRepo := new(MockCategoryRepository)
			tt.setupMock(taskRepo, categoryRepo)

			svc := newTaskService(taskRepo, categoryRepo)
			task, err := svc.Create(context.Background(), 1, tt.input)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, task)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task)
			}
			taskRepo.AssertExpectations(t)
			categoryRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_ToggleCompletion_TwiceRestoresOriginal(t *testing.T) {
	task := &model.Task{ID: 3, Title: "Buy milk", Completed: false}

	taskRepo := new(MockTaskRepository)
	taskRepo.On("FindByIDForUser", mock.Anything, uint(3), uint(1)).Return(task, nil)
	taskRepo.On("Update", mock.Anything, task).Return(nil)

	svc := newTaskService(taskRepo, new(MockCategoryRepository))

	first, err := svc.ToggleCompletion(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := svc.ToggleCompletion(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.False(t, second.Completed)
}

func TestTaskService_QuickAdd(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		setupMock     func(*MockTaskRepository)
		expectedError error
	}{
		{
			name:  "creates minimal task",
			title: "Buy milk",
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
					return task.Title == "Buy milk" &&
						task.UserID != nil && *task.UserID == 1 &&
						task.Priority == model.PriorityMedium &&
						!task.Completed
				})).Return(nil)
			},
		},
		{
			name:          "empty title creates nothing",
			title:         "",
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
		{
			name:          "whitespace title creates nothing",
			title:         "   ",
			setupMock:     func(m *MockTaskRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskRepo := new(MockTaskRepository)
			tt.setupMock(taskRepo)

			svc := newTaskService(taskRepo, new(MockCategoryRepository))
			task, err := svc.QuickAdd(context.Background(), 1, tt.title)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, task)
				taskRepo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task)
			}
			taskRepo.AssertExpectations(t)
		})
	}
}

func uintPtr(v uint) *uint {
	return &v
}
