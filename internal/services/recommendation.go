package services

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"gonum.org/v1/gonum/mat"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/ml"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

const RecommendationModelName = "recommendation_model"

const (
	maxRecommendations = 10
	neighborCount      = 5
	// interactionFeatureWidth is the width of the non-identifier columns of
	// an interaction row: (course_id, rating). The live width must match
	// the fitted model's, anything else is training/serving skew.
	interactionFeatureWidth = 2
)

// RecommendationService implements the three strategies. Collaborative
// degrades to content-based when data or model are missing; a feature
// dimension mismatch is the one hard failure.
type RecommendationService interface {
	ContentBased(ctx context.Context, learningStyle string) ([]types.Course, error)
	Collaborative(ctx context.Context, userID int64, learningStyle string) ([]types.Course, error)
	Hybrid(ctx context.Context, userID int64, learningStyle string) ([]types.Course, error)
	// TrainModel fits the KNN index over the full interaction dataset and
	// replaces the persisted artifact in a single upsert.
	TrainModel(ctx context.Context) error
}

type recommendationService struct {
	log          *logger.Logger
	courses      repos.CourseRepo
	interactions repos.InteractionRepo
	artifacts    repos.ModelArtifactRepo

	group  singleflight.Group
	cached atomic.Pointer[ml.NearestNeighbors]
}

func NewRecommendationService(baseLog *logger.Logger, courses repos.CourseRepo, interactions repos.InteractionRepo, artifacts repos.ModelArtifactRepo) RecommendationService {
	return &recommendationService{
		log:          baseLog.With("service", "RecommendationService"),
		courses:      courses,
		interactions: interactions,
		artifacts:    artifacts,
	}
}

func (rs *recommendationService) ContentBased(ctx context.Context, learningStyle string) ([]types.Course, error) {
	return rs.courses.ListByCategory(ctx, learningStyle, maxRecommendations)
}

func (rs *recommendationService) Collaborative(ctx context.Context, userID int64, learningStyle string) ([]types.Course, error) {
	all, err := rs.interactions.ListAll(ctx)
	if err != nil {
		rs.log.Warn("Interaction data unavailable, using content-based recommendations", "error", err)
		return rs.ContentBased(ctx, learningStyle)
	}
	if len(all) == 0 {
		rs.log.Debug("No interaction data, using content-based recommendations", "user_id", userID)
		return rs.ContentBased(ctx, learningStyle)
	}

	model := rs.loadModel(ctx)
	if model == nil {
		rs.log.Debug("No recommendation model, using content-based recommendations", "user_id", userID)
		return rs.ContentBased(ctx, learningStyle)
	}

	var userRows []types.Interaction
	for _, row := range all {
		if row.UserID == userID {
			userRows = append(userRows, row)
		}
	}
	if len(userRows) == 0 {
		rs.log.Debug("User has no interaction rows, using content-based recommendations", "user_id", userID)
		return rs.ContentBased(ctx, learningStyle)
	}

	if model.NumFeatures() != interactionFeatureWidth {
		rs.log.Error("Feature dimension mismatch between live data and recommendation model",
			"model_features", model.NumFeatures(),
			"live_features", interactionFeatureWidth,
		)
		return nil, apperr.Newf(apperr.KindSchemaDrift, "RecommendationService.Collaborative",
			"model expects %d features, live data has %d", model.NumFeatures(), interactionFeatureWidth)
	}

	seen := make(map[int64]bool)
	var courseIDs []int64
	for _, row := range userRows {
		indices, _, err := model.Kneighbors(interactionFeatures(row), neighborCount)
		if err != nil {
			if errors.Is(err, ml.ErrDimensionMismatch) {
				rs.log.Error("Feature dimension mismatch during neighbor query", "error", err)
				return nil, apperr.New(apperr.KindSchemaDrift, "RecommendationService.Collaborative", err)
			}
			rs.log.Warn("Neighbor query failed, skipping interaction row", "user_id", userID, "error", err)
			continue
		}
		for _, idx := range indices {
			// Neighbor indices address the live interaction matrix, the
			// same dataset the index was fitted on. Rows past the live end
			// mean the matrix shrank since training; skip them.
			if idx >= len(all) {
				continue
			}
			id := all[idx].CourseID
			if !seen[id] {
				seen[id] = true
				courseIDs = append(courseIDs, id)
			}
		}
	}

	details, err := rs.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]types.Course, len(details))
	for _, course := range details {
		byID[course.CourseID] = course
	}
	results := make([]types.Course, 0, len(courseIDs))
	for _, id := range courseIDs {
		if course, ok := byID[id]; ok {
			results = append(results, course)
		}
	}
	return results, nil
}

// Hybrid unions the content-based and collaborative sets, deduplicated by
// full-row equality. The merge has set semantics; the popularity/id sort is
// a deterministic presentation choice, not a ranking guarantee.
func (rs *recommendationService) Hybrid(ctx context.Context, userID int64, learningStyle string) ([]types.Course, error) {
	content, err := rs.ContentBased(ctx, learningStyle)
	if err != nil {
		rs.log.Warn("Content-based leg failed during hybrid merge", "user_id", userID, "error", err)
		content = nil
	}
	collaborative, err := rs.Collaborative(ctx, userID, learningStyle)
	if err != nil {
		rs.log.Warn("Collaborative leg failed during hybrid merge", "user_id", userID, "error", err)
		collaborative = nil
	}

	seen := make(map[types.Course]bool, len(content)+len(collaborative))
	merged := make([]types.Course, 0, len(content)+len(collaborative))
	for _, course := range append(content, collaborative...) {
		if !seen[course] {
			seen[course] = true
			merged = append(merged, course)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Popularity != merged[j].Popularity {
			return merged[i].Popularity > merged[j].Popularity
		}
		return merged[i].CourseID < merged[j].CourseID
	})
	return merged, nil
}

func (rs *recommendationService) TrainModel(ctx context.Context) error {
	all, err := rs.interactions.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return apperr.Newf(apperr.KindDataUnavailable, "RecommendationService.TrainModel", "no interaction data")
	}

	x := mat.NewDense(len(all), interactionFeatureWidth, nil)
	for i, row := range all {
		x.SetRow(i, interactionFeatures(row))
	}

	index := ml.NewNearestNeighbors(neighborCount)
	if err := index.Fit(x); err != nil {
		return apperr.New(apperr.KindDataUnavailable, "RecommendationService.TrainModel", err)
	}

	payload, err := ml.EncodeNeighbors(index)
	if err != nil {
		return err
	}
	if err := rs.artifacts.Save(ctx, RecommendationModelName, ml.ArtifactFormatVersion, payload); err != nil {
		return err
	}
	rs.cached.Store(index)
	rs.log.Info("Recommendation model trained", "samples", len(all), "k", neighborCount)
	return nil
}

func (rs *recommendationService) loadModel(ctx context.Context) *ml.NearestNeighbors {
	if m := rs.cached.Load(); m != nil {
		return m
	}
	v, err, _ := rs.group.Do(RecommendationModelName, func() (interface{}, error) {
		if m := rs.cached.Load(); m != nil {
			return m, nil
		}
		artifact, err := rs.artifacts.Load(ctx, RecommendationModelName)
		if err != nil {
			return nil, err
		}
		if artifact.FormatVersion != ml.ArtifactFormatVersion {
			return nil, apperr.Newf(apperr.KindDataUnavailable, "RecommendationService.loadModel",
				"artifact format %d, want %d", artifact.FormatVersion, ml.ArtifactFormatVersion)
		}
		index, err := ml.DecodeNeighbors(artifact.Payload)
		if err != nil {
			return nil, apperr.New(apperr.KindDataUnavailable, "RecommendationService.loadModel", err)
		}
		rs.cached.Store(index)
		return index, nil
	})
	if err != nil {
		rs.log.Warn("Recommendation model unavailable", "error", err)
		return nil
	}
	return v.(*ml.NearestNeighbors)
}

func interactionFeatures(row types.Interaction) []float64 {
	return []float64{float64(row.CourseID), row.Rating}
}
