package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"challengehub/internal/cache"
	"challengehub/internal/config"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	users := newFakeUserRepo()
	store := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.AuthConfig{
		JWTSecret:     "test-secret",
		AccessExpiry:  30 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		BCryptCost:    10,
	}
	return NewAuthService(users, store, cfg, zap.NewNop()), NewUserService(users, cfg.BCryptCost, zap.NewNop())
}

func TestLoginIssuesValidAccessToken(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)
	user, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	pair, err := authSvc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)
	_, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	_, err = authSvc.Login(context.Background(), "alice", "wrong")
	wrongPass := GetServiceError(err)

	_, err = authSvc.Login(context.Background(), "nobody", "correct-horse")
	wrongUser := GetServiceError(err)

	// Same message either way, so probes cannot enumerate usernames.
	assert.Equal(t, wrongPass.Message, wrongUser.Message)
	assert.Equal(t, wrongPass.StatusCode, wrongUser.StatusCode)
}

func TestRefreshRotatesToken(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)
	_, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	pair, err := authSvc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	next, err := authSvc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The consumed token no longer works.
	_, err = authSvc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, IsErrorType(err, "UNAUTHORIZED"))
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	authSvc, userSvc := newAuthFixture(t)
	_, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	pair, err := authSvc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, authSvc.Logout(context.Background(), pair.RefreshToken))
	_, err = authSvc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, IsErrorType(err, "UNAUTHORIZED"))
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	_, userSvc := newAuthFixture(t)
	_, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)

	_, err = userSvc.Signup(context.Background(), "alice", "another-pass")
	assert.True(t, IsConflictError(err))
}

func TestSignupValidatesInput(t *testing.T) {
	_, userSvc := newAuthFixture(t)

	_, err := userSvc.Signup(context.Background(), "  ", "correct-horse")
	assert.True(t, IsErrorType(err, "VALIDATION_ERROR"))

	_, err = userSvc.Signup(context.Background(), "bob", "short")
	assert.True(t, IsErrorType(err, "VALIDATION_ERROR"))
}

func TestSignupNeverStoresPlaintext(t *testing.T) {
	_, userSvc := newAuthFixture(t)
	user, err := userSvc.Signup(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.NotContains(t, user.PasswordHash, "correct-horse")
}
