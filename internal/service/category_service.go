package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "tasknest/internal/errors"
	"tasknest/internal/model"
	"tasknest/internal/repository"
)

// CategoryService exposes category operations.
type CategoryService interface {
	Create(ctx context.Context, userID uint, name, color string) (*model.Category, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// Create creates a category owned by the acting user.
func (s *categoryService) Create(ctx context.Context, userID uint, name, color string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		UserID: &userID,
		Name:   name,
		Color:  color,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ListByUser lists the acting user's categories.
func (s *categoryService) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	return s.categoryRepo.ListByUser(ctx, userID)
}
