package types

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityStatus is a small lookup table; ids are plain integers because
// the zero id is the hardcoded fallback clients already know.
type AvailabilityStatus struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Status    string `gorm:"column:status;not null" json:"status"`
	IconClass string `gorm:"column:icon_class" json:"icon_class"`
}

func (AvailabilityStatus) TableName() string { return "availability_status" }

// DefaultAvailabilityStatus is substituted when a product has no availability
// row for the current month. Field values are a client contract.
var DefaultAvailabilityStatus = AvailabilityStatus{
	ID:        0,
	Status:    "Plentiful local supply",
	IconClass: "active-status",
}

// SeasonalAvailability holds one status per (product, month label) pair.
type SeasonalAvailability struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID          `gorm:"type:uuid;not null;index:idx_seasonal_product_month,unique" json:"product_id"`
	Month     string             `gorm:"column:month;not null;index:idx_seasonal_product_month,unique" json:"month"`
	StatusID  uint               `gorm:"column:status_id;not null" json:"status_id"`
	Status    AvailabilityStatus `gorm:"foreignKey:StatusID;references:ID" json:"status"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null" json:"updated_at"`
}

func (SeasonalAvailability) TableName() string { return "seasonal_availability" }
