package repos

import (
	"context"
	"testing"

	"github.com/skillalchemy/skillalchemy-backend/internal/repos/testutil"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserFeatureRepo(db, testutil.Logger(t))

	for i := 0; i < 3; i++ {
		if err := repo.EnsureDefaults(ctx, 1); err != nil {
			t.Fatalf("EnsureDefaults call %d: %v", i, err)
		}
	}

	feature, err := repo.GetByUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if feature == nil {
		t.Fatalf("expected a feature row")
	}
	if feature.LearningStyle != types.DefaultLearningStyle {
		t.Fatalf("learning style = %q, want %q", feature.LearningStyle, types.DefaultLearningStyle)
	}
}

func TestEnsureDefaultsDoesNotOverwrite(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserFeatureRepo(db, testutil.Logger(t))

	testutil.SeedFeature(t, ctx, db, types.UserFeature{
		UserID: 5, Progress: 77, LearningStyle: types.StyleKinesthetic,
	})

	if err := repo.EnsureDefaults(ctx, 5); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	feature, err := repo.GetByUser(ctx, 5)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if feature.Progress != 77 || feature.LearningStyle != types.StyleKinesthetic {
		t.Fatalf("defaults overwrote real data: %+v", feature)
	}
}

func TestUserFeatureUpsertReplaces(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserFeatureRepo(db, testutil.Logger(t))

	if err := repo.Upsert(ctx, &types.UserFeature{
		UserID: 2, Progress: 10, Rating: 2, LearningStyle: types.StyleVisual,
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, &types.UserFeature{
		UserID: 2, Progress: 80, Rating: 4.5, LearningStyle: types.StyleAuditory,
	}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	feature, err := repo.GetByUser(ctx, 2)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if feature.Progress != 80 || feature.Rating != 4.5 || feature.LearningStyle != types.StyleAuditory {
		t.Fatalf("upsert did not replace row: %+v", feature)
	}
}

func TestGetByUserMissingRow(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserFeatureRepo(db, testutil.Logger(t))

	feature, err := repo.GetByUser(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if feature != nil {
		t.Fatalf("expected nil for missing row, got %+v", feature)
	}
}

func TestListLabeledSkipsUnlabeledRows(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserFeatureRepo(db, testutil.Logger(t))

	testutil.SeedFeature(t, ctx, db, types.UserFeature{UserID: 1, LearningStyle: types.StyleVisual})
	testutil.SeedFeature(t, ctx, db, types.UserFeature{UserID: 2, LearningStyle: ""})
	testutil.SeedFeature(t, ctx, db, types.UserFeature{UserID: 3, LearningStyle: types.StyleMixed})

	rows, err := repo.ListLabeled(ctx)
	if err != nil {
		t.Fatalf("ListLabeled: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 labeled rows, got %d", len(rows))
	}
	if rows[0].UserID != 1 || rows[1].UserID != 3 {
		t.Fatalf("unexpected labeled rows: %+v", rows)
	}
}
