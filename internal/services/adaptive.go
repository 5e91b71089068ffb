package services

import (
	"context"
	"strings"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type RecommendationType string

const (
	RecommendationContent       RecommendationType = "content"
	RecommendationCollaborative RecommendationType = "collaborative"
	RecommendationHybrid        RecommendationType = "hybrid"
)

// ParseRecommendationType rejects anything outside the three strategies
// with a validation error; there is no silent fallback for a bad type.
func ParseRecommendationType(raw string) (RecommendationType, error) {
	switch t := RecommendationType(raw); t {
	case RecommendationContent, RecommendationCollaborative, RecommendationHybrid:
		return t, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "ParseRecommendationType", "invalid recommendation type %q", raw)
}

// AdaptiveLearningService is the orchestration layer: it onboards users,
// classifies their learning style and dispatches to a strategy.
type AdaptiveLearningService interface {
	// InitializeUserData idempotently creates the user's baseline feature
	// and interaction rows. An empty course catalog is a configuration
	// error: nothing is created and the operation aborts.
	InitializeUserData(ctx context.Context, userID int64) error
	GetRecommendations(ctx context.Context, userID int64, recType RecommendationType) ([]types.Course, error)
	// DefaultsForNewUser filters the catalog by the user's stated
	// preferences, or falls back to the global top courses.
	DefaultsForNewUser(ctx context.Context, userID int64) ([]types.Course, error)
}

type adaptiveLearningService struct {
	log          *logger.Logger
	users        repos.UserRepo
	courses      repos.CourseRepo
	interactions repos.InteractionRepo
	features     repos.UserFeatureRepo
	classifier   StyleClassifier
	recommender  RecommendationService
}

func NewAdaptiveLearningService(
	baseLog *logger.Logger,
	users repos.UserRepo,
	courses repos.CourseRepo,
	interactions repos.InteractionRepo,
	features repos.UserFeatureRepo,
	classifier StyleClassifier,
	recommender RecommendationService,
) AdaptiveLearningService {
	return &adaptiveLearningService{
		log:          baseLog.With("service", "AdaptiveLearningService"),
		users:        users,
		courses:      courses,
		interactions: interactions,
		features:     features,
		classifier:   classifier,
		recommender:  recommender,
	}
}

func (as *adaptiveLearningService) InitializeUserData(ctx context.Context, userID int64) error {
	courseID, ok, err := as.courses.FirstCourseID(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Newf(apperr.KindConfiguration, "AdaptiveLearningService.InitializeUserData",
			"course catalog is empty, cannot create baseline rows")
	}
	if err := as.features.EnsureDefaults(ctx, userID); err != nil {
		return err
	}
	// The schema requires a non-null course reference, so the baseline row
	// points at an arbitrary placeholder course.
	if err := as.interactions.EnsureBaseline(ctx, userID, courseID); err != nil {
		return err
	}
	return nil
}

func (as *adaptiveLearningService) GetRecommendations(ctx context.Context, userID int64, recType RecommendationType) ([]types.Course, error) {
	if _, err := ParseRecommendationType(string(recType)); err != nil {
		return nil, err
	}

	// Onboarding first, so first-time requests self-heal. A configuration
	// error aborts; a store failure is logged and the request proceeds on
	// whatever rows already exist.
	if err := as.InitializeUserData(ctx, userID); err != nil {
		if apperr.IsKind(err, apperr.KindConfiguration) {
			return nil, err
		}
		as.log.Warn("Onboarding failed, continuing with existing rows", "user_id", userID, "error", err)
	}

	learningStyle := as.classifier.Predict(ctx, userID)

	count, err := as.interactions.CountByUser(ctx, userID)
	if err != nil {
		as.log.Warn("Interaction count unavailable, treating user as new", "user_id", userID, "error", err)
		count = 0
	}
	if count == 0 {
		as.log.Info("User has no interactions, providing default recommendations", "user_id", userID)
		return as.DefaultsForNewUser(ctx, userID)
	}

	switch recType {
	case RecommendationContent:
		return as.recommender.ContentBased(ctx, learningStyle)
	case RecommendationCollaborative:
		recs, err := as.recommender.Collaborative(ctx, userID, learningStyle)
		if err != nil {
			if apperr.IsKind(err, apperr.KindSchemaDrift) {
				// Hard failure by contract: schema drift yields an empty
				// result, already logged loudly by the engine.
				return []types.Course{}, nil
			}
			return nil, err
		}
		return recs, nil
	case RecommendationHybrid:
		return as.recommender.Hybrid(ctx, userID, learningStyle)
	}
	return nil, apperr.Newf(apperr.KindValidation, "AdaptiveLearningService.GetRecommendations",
		"invalid recommendation type %q", recType)
}

func (as *adaptiveLearningService) DefaultsForNewUser(ctx context.Context, userID int64) ([]types.Course, error) {
	user, err := as.users.GetByID(ctx, userID)
	if err != nil {
		as.log.Warn("User lookup failed, using global defaults", "user_id", userID, "error", err)
		user = nil
	}

	var categories []string
	if user != nil {
		for _, stated := range []string{user.LearningGoal, user.AreaOfInterest, user.Preference} {
			if strings.TrimSpace(stated) != "" {
				categories = append(categories, stated)
			}
		}
	}
	if len(categories) == 0 {
		as.log.Debug("No stated preferences, using global defaults", "user_id", userID)
		return as.courses.ListTop(ctx, maxRecommendations)
	}
	return as.courses.ListByCategories(ctx, categories, maxRecommendations)
}
