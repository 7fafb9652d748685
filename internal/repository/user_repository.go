package repository

import (
	"context"

	"gorm.io/gorm"

	"referrals/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A taken email yields ErrDuplicateKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return mapGormErr(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email. Emails are stored lower-cased.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &user, nil
}
