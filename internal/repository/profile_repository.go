package repository

import (
	"context"

	"gorm.io/gorm"

	"tasknest/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.UserProfile, error)
	// EnsureByUserID returns the user's profile, creating an empty one if the
	// row went missing.
	EnsureByUserID(ctx context.Context, userID uint) (*model.UserProfile, error)
	Update(ctx context.Context, profile *model.UserProfile) error
	Delete(ctx context.Context, profile *model.UserProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID finds a profile by its owning user.
func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureByUserID finds the user's profile or re-creates a missing one.
func (r *profileRepository) EnsureByUserID(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	profile = model.UserProfile{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves an existing profile.
func (r *profileRepository) Update(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Delete removes a profile row.
func (r *profileRepository) Delete(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Delete(profile).Error
}
