package types

import (
	"time"
)

// Interaction is one (user, course) engagement row. Unique per pair;
// append/update only, the core never deletes interactions. The rating_range
// check is enforced by the store and surfaced as a validation error by the
// interaction repo.
type Interaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_interactions_user_course" json:"user_id"`
	CourseID  int64     `gorm:"column:course_id;not null;uniqueIndex:idx_interactions_user_course" json:"course_id"`
	Progress  float64   `gorm:"column:progress;not null;default:0" json:"progress"`
	Rating    float64   `gorm:"column:rating;not null;default:0;check:rating_range,rating >= 0 AND rating <= 5" json:"rating"`
	TimeSpent float64   `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Interaction) TableName() string { return "interactions" }
