package types

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }

// RecipeIngredient links a recipe to the product pack it consumes. Its
// existence is what makes a product "used in a recipe".
type RecipeIngredient struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID      uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	ProductPackID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_pack_id"`
	Quantity      float64   `gorm:"column:quantity;not null;default:0" json:"quantity"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }
