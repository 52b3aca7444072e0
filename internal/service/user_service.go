package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"baldguard/internal/cache"
	apperrors "baldguard/internal/errors"
	"baldguard/internal/model"
	"baldguard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user directory lookups with read-through caching.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByWalletAddress(ctx context.Context, address string) (*model.User, error)
	AssignWallet(ctx context.Context, id uint, address string) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{
		repo:  repo,
		cache: cache,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetByID retrieves a user by ID with caching.
func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(user.ID), payload, userCacheTTL)
	}
	return user, nil
}

// GetByWalletAddress retrieves the user holding the given wallet address.
func (s *userService) GetByWalletAddress(ctx context.Context, address string) (*model.User, error) {
	user, err := s.repo.FindByWalletAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// AssignWallet writes the wallet address once and drops the cached copy.
func (s *userService) AssignWallet(ctx context.Context, id uint, address string) error {
	if err := s.repo.UpdateWalletAddress(ctx, id, address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
