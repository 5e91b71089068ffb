package services

import (
	"context"
	"testing"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos/testutil"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
	"gorm.io/gorm"
)

type adaptiveFixture struct {
	db           *gorm.DB
	users        repos.UserRepo
	courses      repos.CourseRepo
	interactions repos.InteractionRepo
	features     repos.UserFeatureRepo
	service      AdaptiveLearningService
}

func newAdaptiveFixture(t *testing.T) *adaptiveFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	f := &adaptiveFixture{
		db:           db,
		users:        repos.NewUserRepo(db, log),
		courses:      repos.NewCourseRepo(db, log),
		interactions: repos.NewInteractionRepo(db, log),
		features:     repos.NewUserFeatureRepo(db, log),
	}
	artifacts := repos.NewModelArtifactRepo(db, log)
	classifier := NewStyleClassifier(log, f.features, artifacts)
	recommender := NewRecommendationService(log, f.courses, f.interactions, artifacts)
	f.service = NewAdaptiveLearningService(log, f.users, f.courses, f.interactions, f.features, classifier, recommender)
	return f
}

func TestParseRecommendationType(t *testing.T) {
	for _, raw := range []string{"content", "collaborative", "hybrid"} {
		if _, err := ParseRecommendationType(raw); err != nil {
			t.Fatalf("ParseRecommendationType(%q): %v", raw, err)
		}
	}
	_, err := ParseRecommendationType("magic")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInitializeUserDataIsIdempotent(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 10, Category: types.StyleVisual})

	for i := 0; i < 3; i++ {
		if err := f.service.InitializeUserData(ctx, 1); err != nil {
			t.Fatalf("InitializeUserData call %d: %v", i, err)
		}
	}

	count, err := f.interactions.CountByUser(ctx, 1)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 baseline interaction, got %d", count)
	}
	feature, err := f.features.GetByUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if feature == nil || feature.LearningStyle != types.DefaultLearningStyle {
		t.Fatalf("unexpected feature row: %+v", feature)
	}
}

func TestInitializeUserDataEmptyCatalog(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	err := f.service.InitializeUserData(ctx, 1)
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	// Nothing may be created on the failure path.
	count, cerr := f.interactions.CountByUser(ctx, 1)
	if cerr != nil {
		t.Fatalf("CountByUser: %v", cerr)
	}
	if count != 0 {
		t.Fatalf("baseline row created despite empty catalog")
	}
	feature, ferr := f.features.GetByUser(ctx, 1)
	if ferr != nil {
		t.Fatalf("GetByUser: %v", ferr)
	}
	if feature != nil {
		t.Fatalf("feature row created despite empty catalog: %+v", feature)
	}
}

func TestGetRecommendationsRejectsInvalidType(t *testing.T) {
	f := newAdaptiveFixture(t)

	_, err := f.service.GetRecommendations(context.Background(), 1, RecommendationType("nope"))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetRecommendationsEmptyCatalogAborts(t *testing.T) {
	f := newAdaptiveFixture(t)

	_, err := f.service.GetRecommendations(context.Background(), 1, RecommendationContent)
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGetRecommendationsContentPath(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	// No trained classifier: prediction degrades to the default style, so
	// Visual courses are the expected content set.
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 1, Category: types.StyleVisual, Popularity: 10})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 2, Category: types.StyleVisual, Popularity: 40})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 3, Category: types.StyleAuditory, Popularity: 99})
	testutil.SeedInteraction(t, ctx, f.db, types.Interaction{UserID: 1, CourseID: 1, Rating: 4})

	results, err := f.service.GetRecommendations(ctx, 1, RecommendationContent)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(results) != 2 || results[0].CourseID != 2 || results[1].CourseID != 1 {
		t.Fatalf("unexpected content recommendations: %+v", results)
	}
}

func TestGetRecommendationsHybridPath(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 1, Category: types.StyleVisual, Popularity: 10})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 2, Category: types.StyleVisual, Popularity: 40})

	results, err := f.service.GetRecommendations(ctx, 7, RecommendationHybrid)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(results) != 2 || results[0].CourseID != 2 {
		t.Fatalf("unexpected hybrid recommendations: %+v", results)
	}
}

func TestDefaultsForNewUserWithPreferences(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	testutil.SeedUser(t, ctx, f.db, types.User{
		ID: 1, Email: "a@example.com",
		LearningGoal:   "Data Science",
		AreaOfInterest: "Machine Learning",
	})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 1, Category: "Data Science", Popularity: 20})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 2, Category: "Machine Learning", Popularity: 80})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 3, Category: "Cooking", Popularity: 999})

	results, err := f.service.DefaultsForNewUser(ctx, 1)
	if err != nil {
		t.Fatalf("DefaultsForNewUser: %v", err)
	}
	if len(results) != 2 || results[0].CourseID != 2 || results[1].CourseID != 1 {
		t.Fatalf("expected preference-filtered defaults, got %+v", results)
	}
}

func TestDefaultsForNewUserFallsBackToTopCourses(t *testing.T) {
	f := newAdaptiveFixture(t)
	ctx := context.Background()

	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 1, Category: "Cooking", Popularity: 5})
	testutil.SeedCourse(t, ctx, f.db, types.Course{CourseID: 2, Category: "Baking", Popularity: 50})

	// User 99 does not exist; defaults are the global top courses.
	results, err := f.service.DefaultsForNewUser(ctx, 99)
	if err != nil {
		t.Fatalf("DefaultsForNewUser: %v", err)
	}
	if len(results) != 2 || results[0].CourseID != 2 {
		t.Fatalf("expected global top courses, got %+v", results)
	}
}

// Stub interaction repo forcing the zero-interaction branch: onboarding
// succeeds but the user still counts as new.
type zeroCountInteractionRepo struct {
	repos.InteractionRepo
}

func (z zeroCountInteractionRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func TestGetRecommendationsNewUserGetsDefaults(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	users := repos.NewUserRepo(db, log)
	courses := repos.NewCourseRepo(db, log)
	interactions := zeroCountInteractionRepo{repos.NewInteractionRepo(db, log)}
	features := repos.NewUserFeatureRepo(db, log)
	artifacts := repos.NewModelArtifactRepo(db, log)
	classifier := NewStyleClassifier(log, features, artifacts)
	recommender := NewRecommendationService(log, courses, interactions, artifacts)
	service := NewAdaptiveLearningService(log, users, courses, interactions, features, classifier, recommender)

	testutil.SeedUser(t, ctx, db, types.User{ID: 1, Email: "new@example.com", Preference: "Data Science"})
	testutil.SeedCourse(t, ctx, db, types.Course{CourseID: 1, Category: "Data Science", Popularity: 10})
	testutil.SeedCourse(t, ctx, db, types.Course{CourseID: 2, Category: types.StyleVisual, Popularity: 99})

	results, err := service.GetRecommendations(ctx, 1, RecommendationCollaborative)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(results) != 1 || results[0].CourseID != 1 {
		t.Fatalf("expected preference defaults for new user, got %+v", results)
	}
}
