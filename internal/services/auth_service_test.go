package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/roadmapdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	auth := NewAuthService(testutil.NewTestDB(t), "unit-test-secret", time.Hour)
	auth.BcryptCost = bcrypt.MinCost
	return auth
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, RegisterInput{Username: " ada ", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)

	_, _, err = auth.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, _, err = auth.Login(ctx, LoginInput{Username: "ada", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, _, err = auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, _, err = auth.Login(ctx, LoginInput{Password: "secret1"})
	assert.True(t, IsValidation(err))
}

func TestRegisterDuplicate(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, RegisterInput{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, RegisterInput{Username: "ada", Email: "other@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestLoginDisabledAccount(t *testing.T) {
	auth := newTestAuth(t)
	user := testutil.CreateUser(t, auth.DB, "blocked", false)
	require.NoError(t, auth.DB.Model(user).Update("is_disabled", true).Error)

	_, _, err := auth.Login(context.Background(), LoginInput{Username: "blocked", Password: testutil.TestPassword})
	assert.True(t, errors.Is(err, ErrAccountDisabled))
}

func TestParseTokenExpired(t *testing.T) {
	auth := newTestAuth(t)
	user := testutil.CreateUser(t, auth.DB, "late", false)

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }
	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = auth.ParseToken(token)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth := newTestAuth(t)
	user := testutil.CreateUser(t, auth.DB, "someone", false)

	other := NewAuthService(auth.DB, "another-secret", time.Hour)
	token, err := other.IssueToken(user)
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = auth.ParseToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
