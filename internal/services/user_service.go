package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"challengehub/internal/models"
	"challengehub/internal/repositories"
)

// UserService manages account registration and lookup.
type UserService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup registers a new account. Usernames are unique; the password is
// stored only as a bcrypt hash.
func (s *UserService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username is required", nil)
	}
	if len(password) < 8 {
		return nil, NewValidationError("password must be at least 8 characters", nil)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, EntityAlreadyExistsError("user", "username", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", username),
	)
	return user, nil
}

// UsernameTaken reports whether the username is already registered.
func (s *UserService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return taken, nil
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", id)
	}
	return user, nil
}
