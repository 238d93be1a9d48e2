package repository

import (
	"context"

	"gorm.io/gorm"

	"tasknest/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	// ListByUser returns the categories owned by a user, the set offered as
	// options on that user's task forms.
	ListByUser(ctx context.Context, userID uint) ([]model.Category, error)
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Category, error)
	Delete(ctx context.Context, category *model.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// ListByUser lists the categories owned by a user.
func (r *categoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByIDForUser finds a category by ID scoped to its owning user.
func (r *categoryRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category. Tasks linked to it keep their rows; the
// category reference is nulled out by the schema constraint.
func (r *categoryRepository) Delete(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Delete(category).Error
}
