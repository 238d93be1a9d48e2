package service

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	apperrors "tasknest/internal/errors"
	"tasknest/internal/model"
	"tasknest/internal/repository"
	"tasknest/internal/storage"
)

// ProfileInput carries the editable account and profile fields. A non-nil
// Avatar replaces the current avatar file; RemoveAvatar clears it back to the
// placeholder. When both are set the removal wins and no new file is stored.
type ProfileInput struct {
	Username     string
	Email        string
	Bio          string
	Phone        string
	Location     string
	Avatar       io.Reader
	AvatarName   string
	RemoveAvatar bool
}

// ProfileService manages the profile record and its avatar file. At most one
// avatar file stays referenced per profile; a replaced or removed file is
// deleted from storage before the new state is persisted.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*model.User, *model.UserProfile, error)
	Update(ctx context.Context, userID uint, input ProfileInput) (*model.UserProfile, error)
	DeleteProfile(ctx context.Context, profile *model.UserProfile) error
}

type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	avatars     storage.AvatarStore
}

// NewProfileService creates a new profile service.
func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, avatars storage.AvatarStore) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		avatars:     avatars,
	}
}

// Get returns the user and its profile, re-creating a missing profile row.
func (s *profileService) Get(ctx context.Context, userID uint) (*model.User, *model.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	profile, err := s.profileRepo.EnsureByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("ensure profile: %w", err)
	}
	return user, profile, nil
}

// Update applies account and profile changes, driving the avatar file
// lifecycle so no orphaned file outlives the update.
func (s *profileService) Update(ctx context.Context, userID uint, input ProfileInput) (*model.UserProfile, error) {
	user, profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case input.RemoveAvatar:
		if profile.HasAvatar() {
			if err := s.avatars.Remove(ctx, profile.Avatar); err != nil {
				return nil, fmt.Errorf("remove avatar: %w", err)
			}
			profile.Avatar = ""
		}
	case input.Avatar != nil:
		name, err := s.avatars.Save(ctx, input.Avatar, input.AvatarName)
		if err != nil {
			return nil, fmt.Errorf("save avatar: %w", err)
		}
		if profile.HasAvatar() && profile.Avatar != name {
			if err := s.avatars.Remove(ctx, profile.Avatar); err != nil {
				return nil, fmt.Errorf("remove old avatar: %w", err)
			}
		}
		profile.Avatar = name
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	profile.Bio = input.Bio
	profile.Phone = input.Phone
	profile.Location = input.Location
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// DeleteProfile removes the profile's avatar file, then the record.
func (s *profileService) DeleteProfile(ctx context.Context, profile *model.UserProfile) error {
	if profile.HasAvatar() {
		if err := s.avatars.Remove(ctx, profile.Avatar); err != nil {
			return fmt.Errorf("remove avatar: %w", err)
		}
	}
	if err := s.profileRepo.Delete(ctx, profile); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
