package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type CourseRepo interface {
	GetByIDs(ctx context.Context, courseIDs []int64) ([]types.Course, error)
	// ListByCategory returns courses in one category, most popular first.
	ListByCategory(ctx context.Context, category string, limit int) ([]types.Course, error)
	// ListByCategories returns courses in any of the given categories,
	// most popular first.
	ListByCategories(ctx context.Context, categories []string, limit int) ([]types.Course, error)
	ListTop(ctx context.Context, limit int) ([]types.Course, error)
	// FirstCourseID returns an arbitrary existing course id, used by
	// onboarding as a placeholder reference. ok is false when the catalog
	// is empty.
	FirstCourseID(ctx context.Context) (id int64, ok bool, err error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (cr *courseRepo) GetByIDs(ctx context.Context, courseIDs []int64) ([]types.Course, error) {
	var results []types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := cr.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "CourseRepo.GetByIDs", err)
	}
	return results, nil
}

func (cr *courseRepo) ListByCategory(ctx context.Context, category string, limit int) ([]types.Course, error) {
	var results []types.Course
	if err := cr.db.WithContext(ctx).
		Where("category = ?", category).
		Order("popularity DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "CourseRepo.ListByCategory", err)
	}
	return results, nil
}

func (cr *courseRepo) ListByCategories(ctx context.Context, categories []string, limit int) ([]types.Course, error) {
	var results []types.Course
	if len(categories) == 0 {
		return results, nil
	}
	if err := cr.db.WithContext(ctx).
		Where("category IN ?", categories).
		Order("popularity DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "CourseRepo.ListByCategories", err)
	}
	return results, nil
}

func (cr *courseRepo) ListTop(ctx context.Context, limit int) ([]types.Course, error) {
	var results []types.Course
	if err := cr.db.WithContext(ctx).
		Order("popularity DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "CourseRepo.ListTop", err)
	}
	return results, nil
}

func (cr *courseRepo) FirstCourseID(ctx context.Context) (int64, bool, error) {
	var course types.Course
	err := cr.db.WithContext(ctx).
		Order("course_id").
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperr.New(apperr.KindTransientStore, "CourseRepo.FirstCourseID", err)
	}
	return course.CourseID, true, nil
}
