package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tasknest/internal/model"
	"tasknest/internal/repository"
	"tasknest/internal/session"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// AuthService handles registration, login and logout.
type AuthService interface {
	// Register creates the user with its profile and immediately starts a
	// session, so a fresh signup lands authenticated.
	Register(ctx context.Context, username, email, password string) (user *model.User, token string, err error)
	Login(ctx context.Context, username, password string) (user *model.User, token string, err error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	userRepo     repository.UserRepository
	sessions     *session.Manager
	sessionStore session.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *session.Manager, sessionStore session.Store) AuthService {
	return &authService{
		userRepo:     userRepo,
		sessions:     sessions,
		sessionStore: sessionStore,
	}
}

// Register creates a new user with hashed password and auto-login session.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	if taken, err := s.identityTaken(ctx, username, email); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	user, _, err = s.userRepo.CreateWithProfile(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user and starts a session. Every failure mode maps to
// the same credentials error so nothing about existing accounts leaks, and an
// unexpected repository failure is logged but reported the same way.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("login lookup failed for %q: %v", username, err)
		}
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		log.Printf("session start failed for %q: %v", username, err)
		return nil, "", ErrInvalidCredentials
	}
	return user, token, nil
}

// Logout revokes the session unconditionally.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionStore.Revoke(ctx, sessionID)
}

func (s *authService) startSession(ctx context.Context, user *model.User) (string, error) {
	sessionID, token, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	if err := s.sessionStore.Put(ctx, sessionID, user.ID, session.Expiry); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *authService) identityTaken(ctx context.Context, username, email string) (bool, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if err != gorm.ErrRecordNotFound {
		return false, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if err != gorm.ErrRecordNotFound {
		return false, fmt.Errorf("check email: %w", err)
	}
	return false, nil
}
