package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MeasurementKindWeight = "weight"
	MeasurementKindVolume = "volume"
)

// Measurement is a purchasable unit definition. Factor converts one unit to
// kilograms for weight kinds and to litres for volume kinds.
type Measurement struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Kind   string    `gorm:"column:kind;not null" json:"kind"`
	Factor float64   `gorm:"column:factor;not null" json:"factor"`
}

func (Measurement) TableName() string { return "measurement" }

// ProductPack is a purchasable unit of a product. PricePerKg is derived and
// recomputed on every reconciliation.
type ProductPack struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	MeasurementID uuid.UUID       `gorm:"type:uuid;not null" json:"measurement_id"`
	Measurement   *Measurement    `gorm:"foreignKey:MeasurementID;references:ID" json:"measurement,omitempty"`
	Volume        float64         `gorm:"column:volume;not null" json:"volume"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	PricePerKg    decimal.Decimal `gorm:"column:price_per_kg;type:decimal(10,2)" json:"price_per_kg"`

	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:ProductPackID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProductPack) TableName() string { return "product_pack" }

// ComputePricePerKg normalizes the pack price to one kilogram. Volumetric
// measurements go through the product density (kg per litre); a missing
// density falls back to water-like 1.0.
func (pp *ProductPack) ComputePricePerKg(density *Density) decimal.Decimal {
	if pp.Measurement == nil || pp.Volume <= 0 || pp.Measurement.Factor <= 0 {
		return decimal.Zero
	}
	kilograms := pp.Volume * pp.Measurement.Factor
	if pp.Measurement.Kind == MeasurementKindVolume {
		factor := 1.0
		if density != nil && density.Value > 0 {
			factor = density.Value
		}
		kilograms *= factor
	}
	if kilograms <= 0 {
		return decimal.Zero
	}
	return pp.Price.Div(decimal.NewFromFloat(kilograms)).Round(2)
}
