package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tr33-app/tr33-backend/internal/entity"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByNickname(ctx context.Context, nickname string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: nickname already taken", apperror.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByNickname(ctx context.Context, nickname string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: nickname not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
