package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/repositories"
)

const refreshKeyPrefix = "refresh_token:"

// TokenPair is the result of login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService issues and rotates token pairs. Access tokens are signed
// JWTs; refresh tokens are opaque handles stored in the cache so they can
// be revoked.
type AuthService struct {
	userRepo repositories.UserRepository
	cache    cache.Cache
	config   config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cache cache.Cache, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cache:    cache,
		config:   cfg,
		logger:   logger,
	}
}

// Login verifies the credentials and issues a fresh token pair. Wrong
// username and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NewUnauthorizedError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login failed", zap.String("username", username))
		return nil, NewUnauthorizedError("invalid username or password")
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return pair, nil
}

// Refresh rotates the token pair. The presented refresh token is consumed
// whether or not it is valid; a stolen token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	key := refreshKeyPrefix + refreshToken
	value, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, NewUnauthorizedError("invalid or expired refresh token")
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, NewUnauthorizedError("invalid refresh token")
	}

	return s.issuePair(ctx, userID)
}

// Logout revokes the refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.cache.Delete(ctx, refreshKeyPrefix+refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	now := time.Now()
	jti, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessExpiry)),
		ID:        jti.String(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refresh := refreshID.String()
	if err := s.cache.Set(ctx, refreshKeyPrefix+refresh, strconv.FormatInt(userID, 10), s.config.RefreshExpiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.AccessExpiry.Seconds()),
	}, nil
}
