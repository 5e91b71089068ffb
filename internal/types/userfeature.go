package types

import (
	"time"
)

// Learning style labels. Anything the classifier emits is one of these.
const (
	StyleVisual      = "Visual"
	StyleAuditory    = "Auditory"
	StyleKinesthetic = "Kinesthetic"
	StyleMixed       = "Mixed"
)

// DefaultLearningStyle is what callers get when no features or no trained
// classifier exist for a user.
const DefaultLearningStyle = StyleVisual

// UserFeature is the derived per-user aggregate (table user_data). One row
// per user; upserted by preprocessing and seeded with zero defaults by
// onboarding. engagement_score = (progress/100 * rating) + (time_spent/60).
type UserFeature struct {
	UserID          int64     `gorm:"column:user_id;primaryKey" json:"user_id"`
	Progress        float64   `gorm:"column:progress;not null;default:0" json:"progress"`
	Rating          float64   `gorm:"column:rating;not null;default:0" json:"rating"`
	Difficulty      float64   `gorm:"column:difficulty;not null;default:0" json:"difficulty"`
	TimeSpent       float64   `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	EngagementScore float64   `gorm:"column:engagement_score;not null;default:0" json:"engagement_score"`
	LearningStyle   string    `gorm:"column:learning_style" json:"learning_style"`
	LastUpdated     time.Time `gorm:"column:last_updated" json:"last_updated"`
}

func (UserFeature) TableName() string { return "user_data" }

// Vector returns the feature columns in classifier input order.
func (f UserFeature) Vector() []float64 {
	return []float64{f.Progress, f.Rating, f.Difficulty, f.TimeSpent, f.EngagementScore}
}
