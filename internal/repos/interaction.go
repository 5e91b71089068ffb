package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type InteractionRepo interface {
	CountByUser(ctx context.Context, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]types.Interaction, error)
	ListAll(ctx context.Context) ([]types.Interaction, error)
	// EnsureBaseline inserts a zero-progress, zero-rating row for
	// (userID, courseID) and is a no-op when the pair already exists.
	// Concurrent calls are safe; the unique index carries it.
	EnsureBaseline(ctx context.Context, userID, courseID int64) error
	// Upsert appends or updates the (user, course) row. A rating outside the
	// store's allowed range comes back as a validation error.
	Upsert(ctx context.Context, interaction *types.Interaction) error
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (ir *interactionRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := ir.db.WithContext(ctx).
		Model(&types.Interaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, apperr.New(apperr.KindTransientStore, "InteractionRepo.CountByUser", err)
	}
	return count, nil
}

func (ir *interactionRepo) ListByUser(ctx context.Context, userID int64) ([]types.Interaction, error) {
	var results []types.Interaction
	if err := ir.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("course_id").
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "InteractionRepo.ListByUser", err)
	}
	return results, nil
}

func (ir *interactionRepo) ListAll(ctx context.Context) ([]types.Interaction, error) {
	var results []types.Interaction
	if err := ir.db.WithContext(ctx).
		Order("user_id, course_id").
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "InteractionRepo.ListAll", err)
	}
	return results, nil
}

func (ir *interactionRepo) EnsureBaseline(ctx context.Context, userID, courseID int64) error {
	row := types.Interaction{UserID: userID, CourseID: courseID}
	if err := ir.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return apperr.New(apperr.KindTransientStore, "InteractionRepo.EnsureBaseline", err)
	}
	return nil
}

func (ir *interactionRepo) Upsert(ctx context.Context, interaction *types.Interaction) error {
	err := ir.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"progress", "rating", "time_spent", "updated_at"}),
		}).
		Create(interaction).Error
	if err == nil {
		return nil
	}
	if isRatingRangeViolation(err) {
		return apperr.New(apperr.KindValidation, "InteractionRepo.Upsert", err)
	}
	return apperr.New(apperr.KindTransientStore, "InteractionRepo.Upsert", err)
}

// isRatingRangeViolation matches the store's rating_range check constraint.
// Postgres names the constraint in the message; sqlite reports a generic
// CHECK failure.
func isRatingRangeViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "rating_range") ||
		strings.Contains(msg, "CHECK constraint failed")
}
