package types

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a polymorphic alias row. Updates replace a product's tags wholesale,
// so tag ids are not stable across updates.
type Tag struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null;index" json:"name"`
	TaggableType string    `gorm:"column:taggable_type;not null;index:idx_tag_taggable" json:"taggable_type"`
	TaggableID   uuid.UUID `gorm:"type:uuid;column:taggable_id;not null;index:idx_tag_taggable" json:"taggable_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Tag) TableName() string { return "tag" }
