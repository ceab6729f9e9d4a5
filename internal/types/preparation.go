package types

import (
	"time"

	"github.com/google/uuid"
)

// Preparation is a yield entry: Value is the percentage of the product that
// remains after the preparation step. At most one row per product carries the
// default flag.
type Preparation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Value     float64   `gorm:"column:value;not null" json:"value"`
	Default   bool      `gorm:"column:default;not null;default:false" json:"default"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Preparation) TableName() string { return "preparation" }
