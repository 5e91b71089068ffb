package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type UserFeatureRepo interface {
	// GetByUser returns (nil, nil) when the user has no feature row.
	GetByUser(ctx context.Context, userID int64) (*types.UserFeature, error)
	// EnsureDefaults inserts a zero-feature row with the default learning
	// style; a no-op when the user already has one.
	EnsureDefaults(ctx context.Context, userID int64) error
	// Upsert replaces the user's feature row wholesale (preprocessing path).
	Upsert(ctx context.Context, feature *types.UserFeature) error
	// ListLabeled returns rows with a non-empty learning style, the
	// classifier's training set.
	ListLabeled(ctx context.Context) ([]types.UserFeature, error)
}

type userFeatureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserFeatureRepo(db *gorm.DB, baseLog *logger.Logger) UserFeatureRepo {
	return &userFeatureRepo{db: db, log: baseLog.With("repo", "UserFeatureRepo")}
}

func (fr *userFeatureRepo) GetByUser(ctx context.Context, userID int64) (*types.UserFeature, error) {
	var feature types.UserFeature
	err := fr.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "UserFeatureRepo.GetByUser", err)
	}
	return &feature, nil
}

func (fr *userFeatureRepo) EnsureDefaults(ctx context.Context, userID int64) error {
	row := types.UserFeature{
		UserID:        userID,
		LearningStyle: types.DefaultLearningStyle,
		LastUpdated:   time.Now().UTC(),
	}
	if err := fr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return apperr.New(apperr.KindTransientStore, "UserFeatureRepo.EnsureDefaults", err)
	}
	return nil
}

func (fr *userFeatureRepo) Upsert(ctx context.Context, feature *types.UserFeature) error {
	feature.LastUpdated = time.Now().UTC()
	if err := fr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"progress", "rating", "difficulty", "time_spent",
				"engagement_score", "learning_style", "last_updated",
			}),
		}).
		Create(feature).Error; err != nil {
		return apperr.New(apperr.KindTransientStore, "UserFeatureRepo.Upsert", err)
	}
	return nil
}

func (fr *userFeatureRepo) ListLabeled(ctx context.Context) ([]types.UserFeature, error) {
	var results []types.UserFeature
	if err := fr.db.WithContext(ctx).
		Where("learning_style <> ''").
		Order("user_id").
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "UserFeatureRepo.ListLabeled", err)
	}
	return results, nil
}
