package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductAudit is written by the audit event listener, one row per stored or
// updated product, carrying the snapshotted old values next to the new ones.
type ProductAudit struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string         `gorm:"column:action;not null;index" json:"action"`
	OldValues datatypes.JSON `gorm:"column:old_values;type:jsonb" json:"old_values,omitempty"`
	NewValues datatypes.JSON `gorm:"column:new_values;type:jsonb" json:"new_values,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (ProductAudit) TableName() string { return "product_audit" }
