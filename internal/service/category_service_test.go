package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "tasknest/internal/errors"
	"tasknest/internal/model"
)

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name          string
		categoryName  string
		color         string
		setupMock     func(*MockCategoryRepository)
		expectedColor string
		expectedError error
	}{
		{
			name:         "binds acting user and keeps chosen color",
			categoryName: "Work",
			color:        "#0d6efd",
			setupMock: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
					return c.UserID != nil && *c.UserID == 1 && c.Name == "Work"
				})).Return(nil)
			},
			expectedColor: "#0d6efd",
		},
		{
			name:         "empty color falls back to default",
			categoryName: "Home",
			setupMock: func(m *MockCategoryRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
			expectedColor: model.DefaultCategoryColor,
		},
		{
			name:          "blank name rejected",
			categoryName:  "   ",
			setupMock:     func(m *MockCategoryRepository) {},
			expectedError: apperrors.ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryRepo := new(MockCategoryRepository)
			tt.setupMock(categoryRepo)

			svc := NewCategoryService(categoryRepo)
			category, err := svc.Create(context.Background(), 1, tt.categoryName, tt.color)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, category)
				categoryRepo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedColor, category.Color)
			}
			categoryRepo.AssertExpectations(t)
		})
	}
}
