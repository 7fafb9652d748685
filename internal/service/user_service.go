package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"referrals/internal/cache"
	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService looks up users for request authentication.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
// A nil cache disables caching.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// GetUser returns the user without credentials. Users never change after
// registration, so cached entries cannot go stale.
func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	public := user.Public()
	if payload, err := json.Marshal(public); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return public, nil
}
