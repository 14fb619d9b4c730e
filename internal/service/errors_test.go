package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrUserNotFound, ErrNotFound},
		{ErrFriendRequestNotFound, ErrNotFound},
		{ErrInviteNotFound, ErrNotFound},
		{ErrUserAlreadyExists, ErrConflict},
		{ErrFriendRequestExists, ErrConflict},
		{ErrInvalidStatus, ErrInvalidInput},
		{ErrInvalidUsername, ErrInvalidInput},
		{ErrEmptyPassword, ErrInvalidInput},
		{ErrCannotFriendSelf, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.kind)
			assert.NotContains(t, tt.err.Error(), tt.kind.Error()+":")
		})
	}

	assert.False(t, errors.Is(ErrInvalidCredentials, ErrNotFound))
	assert.Equal(t, "user not found", ErrUserNotFound.Error())
}
