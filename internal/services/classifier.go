package services

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/ml"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

const LearningStyleModelName = "learning_style_model"

// StyleClassifier derives a learning style label from a user's behavioral
// features.
type StyleClassifier interface {
	// Train fits the ensemble on every labeled feature row, reports fit
	// metrics measured on the training set itself, and replaces the
	// persisted artifact.
	Train(ctx context.Context) (*ml.ClassificationReport, error)
	// Predict never fails: a missing feature row, missing or stale
	// artifact, or store failure all degrade to the default label.
	Predict(ctx context.Context, userID int64) string
}

type styleClassifier struct {
	log       *logger.Logger
	features  repos.UserFeatureRepo
	artifacts repos.ModelArtifactRepo
	cfg       ml.ForestConfig

	group  singleflight.Group
	cached atomic.Pointer[ml.RandomForest]
}

func NewStyleClassifier(baseLog *logger.Logger, features repos.UserFeatureRepo, artifacts repos.ModelArtifactRepo) StyleClassifier {
	return &styleClassifier{
		log:       baseLog.With("service", "StyleClassifier"),
		features:  features,
		artifacts: artifacts,
		cfg:       ml.DefaultForestConfig(),
	}
}

func (sc *styleClassifier) Train(ctx context.Context) (*ml.ClassificationReport, error) {
	rows, err := sc.features.ListLabeled(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.Newf(apperr.KindDataUnavailable, "StyleClassifier.Train", "no labeled feature rows")
	}

	x := make([][]float64, len(rows))
	y := make([]string, len(rows))
	for i, row := range rows {
		x[i] = row.Vector()
		y[i] = row.LearningStyle
	}

	forest, err := ml.TrainForest(x, y, sc.cfg)
	if err != nil {
		return nil, apperr.New(apperr.KindDataUnavailable, "StyleClassifier.Train", err)
	}

	predictions := make([]string, len(rows))
	for i := range x {
		predictions[i], _ = forest.Predict(x[i])
	}
	report := ml.Evaluate(y, predictions)
	sc.log.Info("Learning style model trained",
		"samples", len(rows),
		"accuracy", report.Accuracy,
		"precision", report.Precision,
		"recall", report.Recall,
		"f1", report.F1,
	)

	payload, err := ml.EncodeForest(forest)
	if err != nil {
		return nil, err
	}
	if err := sc.artifacts.Save(ctx, LearningStyleModelName, ml.ArtifactFormatVersion, payload); err != nil {
		return nil, err
	}
	sc.cached.Store(forest)
	return &report, nil
}

func (sc *styleClassifier) Predict(ctx context.Context, userID int64) string {
	feature, err := sc.features.GetByUser(ctx, userID)
	if err != nil {
		sc.log.Warn("Feature lookup failed, using default style", "user_id", userID, "error", err)
		return types.DefaultLearningStyle
	}
	if feature == nil {
		sc.log.Debug("No feature row, using default style", "user_id", userID)
		return types.DefaultLearningStyle
	}

	model := sc.loadModel(ctx)
	if model == nil {
		return types.DefaultLearningStyle
	}

	label, err := model.Predict(feature.Vector())
	if err != nil {
		sc.log.Warn("Prediction failed, using default style", "user_id", userID, "error", err)
		return types.DefaultLearningStyle
	}
	return label
}

// loadModel returns the process-cached forest, loading it from the artifact
// store at most once across concurrent requests. The artifact is immutable
// between retrains, so the cache never needs invalidation beyond Train's
// own refresh.
func (sc *styleClassifier) loadModel(ctx context.Context) *ml.RandomForest {
	if m := sc.cached.Load(); m != nil {
		return m
	}
	v, err, _ := sc.group.Do(LearningStyleModelName, func() (interface{}, error) {
		if m := sc.cached.Load(); m != nil {
			return m, nil
		}
		artifact, err := sc.artifacts.Load(ctx, LearningStyleModelName)
		if err != nil {
			return nil, err
		}
		if artifact.FormatVersion != ml.ArtifactFormatVersion {
			return nil, apperr.Newf(apperr.KindDataUnavailable, "StyleClassifier.loadModel",
				"artifact format %d, want %d", artifact.FormatVersion, ml.ArtifactFormatVersion)
		}
		forest, err := ml.DecodeForest(artifact.Payload)
		if err != nil {
			return nil, apperr.New(apperr.KindDataUnavailable, "StyleClassifier.loadModel", err)
		}
		sc.cached.Store(forest)
		return forest, nil
	})
	if err != nil {
		sc.log.Warn("Learning style model unavailable, using default label", "error", err)
		return nil
	}
	return v.(*ml.RandomForest)
}
