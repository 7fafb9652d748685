package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/repository"
)

func TestUserService_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	repo.On("FindByID", ctx, "u-1").Return(&model.User{ID: "u-1", PasswordHash: "hash"}, nil)
	repo.On("FindByID", ctx, "ghost").Return(nil, repository.ErrRecordNotFound)
	repo.On("FindByID", ctx, "boom").Return(nil, errors.New("db down"))

	user, err := svc.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.GetUser(ctx, "boom")
	assert.True(t, apperrors.IsInternal(err))
}
