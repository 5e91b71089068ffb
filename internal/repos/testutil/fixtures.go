package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, db *gorm.DB, user types.User) types.User {
	tb.Helper()
	if user.Name == "" {
		user.Name = "Test User"
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedCourse(tb testing.TB, ctx context.Context, db *gorm.DB, course types.Course) types.Course {
	tb.Helper()
	if course.CourseName == "" {
		course.CourseName = "Test Course"
	}
	if err := db.WithContext(ctx).Create(&course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return course
}

func SeedInteraction(tb testing.TB, ctx context.Context, db *gorm.DB, row types.Interaction) types.Interaction {
	tb.Helper()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return row
}

func SeedFeature(tb testing.TB, ctx context.Context, db *gorm.DB, row types.UserFeature) types.UserFeature {
	tb.Helper()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		tb.Fatalf("seed user feature: %v", err)
	}
	return row
}
