package types

import (
	"time"
)

// User rows are created by the external web layer; the core only reads the
// stated preference columns when building defaults for new users.
type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Email          string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	LearningGoal   string    `gorm:"column:learning_goal" json:"learning_goal"`
	AreaOfInterest string    `gorm:"column:area_of_interest" json:"area_of_interest"`
	Preference     string    `gorm:"column:preference" json:"preference"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
