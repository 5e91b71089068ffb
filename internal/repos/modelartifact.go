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

type ModelArtifactRepo interface {
	// Save replaces the artifact of the same name in a single upsert, so a
	// crash mid-retrain never leaves zero artifacts behind.
	Save(ctx context.Context, name string, formatVersion int, payload []byte) error
	// Load returns a data-unavailable error when no artifact exists under
	// the name.
	Load(ctx context.Context, name string) (*types.ModelArtifact, error)
}

type modelArtifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModelArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ModelArtifactRepo {
	return &modelArtifactRepo{db: db, log: baseLog.With("repo", "ModelArtifactRepo")}
}

func (mr *modelArtifactRepo) Save(ctx context.Context, name string, formatVersion int, payload []byte) error {
	row := types.ModelArtifact{
		Name:          name,
		FormatVersion: formatVersion,
		Payload:       payload,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := mr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"format_version", "model_data", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		return apperr.New(apperr.KindTransientStore, "ModelArtifactRepo.Save", err)
	}
	mr.log.Info("Model artifact saved", "name", name, "format_version", formatVersion, "bytes", len(payload))
	return nil
}

func (mr *modelArtifactRepo) Load(ctx context.Context, name string) (*types.ModelArtifact, error) {
	var artifact types.ModelArtifact
	err := mr.db.WithContext(ctx).
		Where("model_name = ?", name).
		First(&artifact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindDataUnavailable, "ModelArtifactRepo.Load", "no artifact named %q", name)
	}
	if err != nil {
		return nil, apperr.New(apperr.KindTransientStore, "ModelArtifactRepo.Load", err)
	}
	return &artifact, nil
}
