package types

import (
	"time"

	"github.com/google/uuid"
)

// DietSlugNutAllergy identifies the diet auto-appended when a product name
// indicates nut content.
const DietSlugNutAllergy = "nut-allergy"

type Diet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Diet) TableName() string { return "diet" }
