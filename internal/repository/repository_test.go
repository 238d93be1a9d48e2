package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasknest/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Category{},
		&model.Task{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user, _, err := NewUserRepository(db).CreateWithProfile(context.Background(), &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, profile, err := NewUserRepository(db).CreateWithProfile(ctx, &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})

	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, user.ID, profile.UserID)

	// The profile row is really there.
	stored, err := NewProfileRepository(db).FindByUserID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	category := &model.Category{UserID: &user.ID, Name: "Work", Color: model.DefaultCategoryColor}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))
	task := &model.Task{UserID: &user.ID, CategoryID: &category.ID, Title: "Buy milk", Priority: model.PriorityMedium}
	require.NoError(t, NewTaskRepository(db).Create(ctx, task))

	require.NoError(t, NewUserRepository(db).Delete(ctx, user.ID))

	var count int64
	db.Model(&model.UserProfile{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Category{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Task{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestProfileRepository_EnsureByUserID_RecreatesMissingRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	repo := NewProfileRepository(db)

	existing, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, existing))

	profile, err := repo.EnsureByUserID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.NotEqual(t, existing.ID, profile.ID)

	// A second ensure returns the same row instead of creating another.
	again, err := repo.EnsureByUserID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestCategoryRepository_DeleteLeavesTasksInPlace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	categoryRepo := NewCategoryRepository(db)
	taskRepo := NewTaskRepository(db)

	category := &model.Category{UserID: &user.ID, Name: "Work", Color: model.DefaultCategoryColor}
	require.NoError(t, categoryRepo.Create(ctx, category))
	task := &model.Task{UserID: &user.ID, CategoryID: &category.ID, Title: "Buy milk", Priority: model.PriorityMedium}
	require.NoError(t, taskRepo.Create(ctx, task))

	require.NoError(t, categoryRepo.Delete(ctx, category))

	reloaded, err := taskRepo.FindByIDForUser(ctx, task.ID, user.ID)
	assert.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
}

func TestCategoryRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewCategoryRepository(db)

	category := &model.Category{UserID: &alice.ID, Name: "Work", Color: model.DefaultCategoryColor}
	require.NoError(t, repo.Create(ctx, category))

	_, err := repo.FindByIDForUser(ctx, category.ID, bob.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	categories, err := repo.ListByUser(ctx, bob.ID)
	assert.NoError(t, err)
	assert.Empty(t, categories)
}

func seedTasks(t *testing.T, db *gorm.DB, userID uint, now time.Time) (active, completed, overdue *model.Task) {
	t.Helper()
	repo := NewTaskRepository(db)
	ctx := context.Background()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	active = &model.Task{UserID: &userID, Title: "Write report", DueDate: &tomorrow, Priority: model.PriorityHigh, CreatedAt: now.Add(-3 * time.Hour)}
	completed = &model.Task{UserID: &userID, Title: "Call plumber", Completed: true, Priority: model.PriorityMedium, CreatedAt: now.Add(-2 * time.Hour)}
	overdue = &model.Task{UserID: &userID, Title: "Buy milk", DueDate: &yesterday, Priority: model.PriorityLow, CreatedAt: now.Add(-1 * time.Hour)}
	for _, task := range []*model.Task{active, completed, overdue} {
		require.NoError(t, repo.Create(ctx, task))
	}
	return active, completed, overdue
}

func TestTaskRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	repo := NewTaskRepository(db)
	now := time.Now()
	activeTask, completedTask, overdueTask := seedTasks(t, db, user.ID, now)

	tests := []struct {
		filter    TaskFilter
		expectIDs []uint
	}{
		// Newest first in every listing.
		{FilterAll, []uint{overdueTask.ID, completedTask.ID, activeTask.ID}},
		{FilterActive, []uint{overdueTask.ID, activeTask.ID}},
		{FilterCompleted, []uint{completedTask.ID}},
		{FilterOverdue, []uint{overdueTask.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			tasks, err := repo.ListByUser(ctx, user.ID, tt.filter, now)
			assert.NoError(t, err)

			ids := make([]uint, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.expectIDs, ids)
		})
	}
}

func TestTaskRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	repo := NewTaskRepository(db)
	now := time.Now()
	seedTasks(t, db, user.ID, now)

	total, err := repo.CountByUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)

	completed, err := repo.CountCompletedByUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	overdue, err := repo.CountOverdueByUser(ctx, user.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), overdue)
}

func TestTaskRepository_ListRecentByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")
	repo := NewTaskRepository(db)
	now := time.Now()

	for i := 0; i < 7; i++ {
		task := &model.Task{
			UserID:    &user.ID,
			Title:     "Task",
			Priority:  model.PriorityMedium,
			CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.Create(ctx, task))
	}

	tasks, err := repo.ListRecentByUser(ctx, user.ID, 5)
	assert.NoError(t, err)
	assert.Len(t, tasks, 5)
	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt))
	}
}

func TestTaskRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	repo := NewTaskRepository(db)

	task := &model.Task{UserID: &alice.ID, Title: "Secret", Priority: model.PriorityMedium}
	require.NoError(t, repo.Create(ctx, task))

	// Bob never sees Alice's task, in lookups or listings.
	_, err := repo.FindByIDForUser(ctx, task.ID, bob.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	tasks, err := repo.ListByUser(ctx, bob.ID, FilterAll, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParseTaskFilter(t *testing.T) {
	assert.Equal(t, FilterAll, ParseTaskFilter(""))
	assert.Equal(t, FilterAll, ParseTaskFilter("all"))
	assert.Equal(t, FilterAll, ParseTaskFilter("bogus"))
	assert.Equal(t, FilterActive, ParseTaskFilter("active"))
	assert.Equal(t, FilterCompleted, ParseTaskFilter("completed"))
	assert.Equal(t, FilterOverdue, ParseTaskFilter("overdue"))
}
