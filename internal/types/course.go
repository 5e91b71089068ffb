package types

// Course is a catalog entry. Read-only to the core; the catalog is managed by
// the external web layer. Every field is a portable scalar so rows serialize
// to JSON without conversion.
type Course struct {
	CourseID          int64  `gorm:"column:course_id;primaryKey;autoIncrement" json:"course_id"`
	CourseName        string `gorm:"column:course_name;not null" json:"course_name"`
	Category          string `gorm:"column:category;index" json:"category"`
	Difficulty        int    `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Popularity        int    `gorm:"column:popularity;not null;default:0;index" json:"popularity"`
	YoutubeLink       string `gorm:"column:youtube_link" json:"youtube_link"`
	CourseDescription string `gorm:"column:course_description;type:text" json:"course_description"`
}

func (Course) TableName() string { return "courses" }
