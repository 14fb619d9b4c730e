package service

import (
	"context"
	"testing"
	"time"

	"lobby-server/config"
	"lobby-server/internal/repository"
	"lobby-server/internal/testutil"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *jwt.JWTService) {
	t.Helper()
	gdb := testutil.NewTestDB(t)
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test", Issuer: "lobby-test", ExpireTime: time.Hour})
	return NewUserService(repository.NewUserRepository(gdb), jwtSvc), jwtSvc
}

func TestRegister(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  amy ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "amy", u.Username)
	assert.Equal(t, 0, u.Rating)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.True(t, password.Verify("pw", u.PasswordHash))

	_, err = svc.Register(ctx, "amy", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)

	// 区分大小写
	_, err = svc.Register(ctx, "Amy", "pw")
	assert.NoError(t, err)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty username", "  ", "pw", ErrInvalidUsername},
		{"too long", "abcdefghijklmnopqrstu", "pw", ErrInvalidUsername},
		{"empty password", "amy", "", ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Register(ctx, "abcdefghijklmnopqrst", "pw")
	assert.NoError(t, err, "20 characters is allowed")
}

func TestLogin(t *testing.T) {
	svc, jwtSvc := newUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "amy", "secret")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "amy", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "amy", claims.Username)
	assert.Equal(t, 0, claims.Rating)

	_, _, wrongPassword := svc.Login(ctx, "amy", "nope")
	_, _, unknownUser := svc.Login(ctx, "ghost", "secret")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetAndFindUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	amy, err := svc.Register(ctx, "amy", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, amy.ID)
	require.NoError(t, err)
	assert.Equal(t, "amy", got.Username)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err = svc.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	_, err = svc.FindByUsername(ctx, "BOB")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].Username)
}
