package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Root        bool           `gorm:"column:root;not null;default:false" json:"root"`
	SupplierID  *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier    *Supplier      `gorm:"constraint:OnDelete:SET NULL;foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	Permissions datatypes.JSON `gorm:"column:permissions;type:jsonb" json:"permissions,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
