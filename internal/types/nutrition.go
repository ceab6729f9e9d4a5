package types

import (
	"time"

	"github.com/google/uuid"
)

// NutrientBasis is the canonical per-100g nutrition reference a product points
// at (the raw ingredient table).
type NutrientBasis struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Kcal    float64   `gorm:"column:kcal;not null" json:"kcal"`
	Protein float64   `gorm:"column:protein;not null" json:"protein"`
	Fat     float64   `gorm:"column:fat;not null" json:"fat"`
	Carbs   float64   `gorm:"column:carbs;not null" json:"carbs"`
	Fiber   float64   `gorm:"column:fiber;not null" json:"fiber"`
	Salt    float64   `gorm:"column:salt;not null" json:"salt"`
}

func (NutrientBasis) TableName() string { return "nutrient_basis" }

// NutritionInfo is the per-product breakdown derived from its NutrientBasis.
// One row per product, rebuilt whenever the basis reference changes.
type NutritionInfo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	Kcal      float64   `gorm:"column:kcal;not null" json:"kcal"`
	Protein   float64   `gorm:"column:protein;not null" json:"protein"`
	Fat       float64   `gorm:"column:fat;not null" json:"fat"`
	Carbs     float64   `gorm:"column:carbs;not null" json:"carbs"`
	Fiber     float64   `gorm:"column:fiber;not null" json:"fiber"`
	Salt      float64   `gorm:"column:salt;not null" json:"salt"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (NutritionInfo) TableName() string { return "nutrition_info" }
