package types

import (
	"time"
)

// ModelArtifact is a named, versioned binary model blob (table models).
// At most one live row per name; replaced wholesale by a single upsert on
// retrain so there is never a window with zero artifacts. FormatVersion is
// checked before the payload is decoded.
type ModelArtifact struct {
	Name          string    `gorm:"column:model_name;primaryKey" json:"model_name"`
	FormatVersion int       `gorm:"column:format_version;not null" json:"format_version"`
	Payload       []byte    `gorm:"column:model_data;not null" json:"-"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ModelArtifact) TableName() string { return "models" }
