package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type UserRepo interface {
	// GetByID returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, userID int64) (*types.User, error)
	ListAll(ctx context.Context) ([]types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetByID(ctx context.Context, userID int64) (*types.User, error) {
	var user types.User
	err := ur.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "UserRepo.GetByID", err)
	}
	return &user, nil
}

func (ur *userRepo) ListAll(ctx context.Context) ([]types.User, error) {
	var results []types.User
	if err := ur.db.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "UserRepo.ListAll", err)
	}
	return results, nil
}
