package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/requestdata"
)

// monthLabels is the canonical month order used by seasonal availability rows.
// The three/four-letter labels are a wire compatibility contract with existing
// clients and stored data; do not swap them for ISO month codes.
var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "June", "July", "Aug", "Sept", "Oct", "Nov", "Dec"}

func MonthLabels() []string {
	out := make([]string, len(monthLabels))
	copy(out, monthLabels)
	return out
}

func MonthLabel(m time.Month) string {
	return monthLabels[int(m)-1]
}

// PermissionProductDestroy gates the destroy workflow.
const PermissionProductDestroy = "product_destroy"

type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"column:name;not null;index" json:"name"`
	Description    string          `gorm:"column:description" json:"description"`
	URL            string          `gorm:"column:url" json:"url"`
	SKU            string          `gorm:"column:sku;size:32" json:"sku"`
	AveragePrice   decimal.Decimal `gorm:"column:average_price;type:decimal(10,2)" json:"average_price"`
	BrandID        *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Brand          *Brand          `gorm:"constraint:OnDelete:SET NULL;foreignKey:BrandID;references:ID" json:"brand,omitempty"`
	SupplierID     *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier       *Supplier       `gorm:"constraint:OnDelete:SET NULL;foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	FoodCategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"food_category_id,omitempty"`
	FoodCategory   *FoodCategory   `gorm:"constraint:OnDelete:SET NULL;foreignKey:FoodCategoryID;references:ID" json:"food_category,omitempty"`
	DensityID      *uuid.UUID      `gorm:"type:uuid;index" json:"density_id,omitempty"`
	Density        *Density        `gorm:"constraint:OnDelete:SET NULL;foreignKey:DensityID;references:ID" json:"density,omitempty"`
	NutrientBasisID *uuid.UUID     `gorm:"type:uuid;index" json:"nutrient_basis_id,omitempty"`
	NutrientBasis  *NutrientBasis  `gorm:"constraint:OnDelete:SET NULL;foreignKey:NutrientBasisID;references:ID" json:"nutrient_basis,omitempty"`

	// Owner is polymorphic (supplier-owned vs user-owned products) and is never
	// bound from request payloads. Resolution goes through the owner registry.
	OwnerType string    `gorm:"column:owner_type;index:idx_product_owner" json:"owner_type,omitempty"`
	OwnerID   uuid.UUID `gorm:"type:uuid;column:owner_id;index:idx_product_owner" json:"owner_id,omitempty"`

	Preparations           []Preparation          `gorm:"foreignKey:ProductID" json:"preparations,omitempty"`
	Packs                  []ProductPack          `gorm:"foreignKey:ProductID" json:"packs,omitempty"`
	SeasonalAvailabilities []SeasonalAvailability `gorm:"foreignKey:ProductID" json:"seasonal_availabilities,omitempty"`
	Diets                  []*Diet                `gorm:"many2many:product_diets" json:"diets,omitempty"`
	Tags                   []Tag                  `gorm:"polymorphic:Taggable" json:"tags,omitempty"`
	NutritionInfo          *NutritionInfo         `gorm:"foreignKey:ProductID" json:"nutrition_info,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }

// DefaultWasteAndNote derives the waste percentage from the preparation marked
// default. A product with no preparations and a product whose preparations all
// have the default flag off both come back as (0, "").
func (p *Product) DefaultWasteAndNote() (float64, string) {
	for i := range p.Preparations {
		if p.Preparations[i].Default {
			return 100 - p.Preparations[i].Value, p.Preparations[i].Name
		}
	}
	return 0, ""
}

// EditableBy reports whether the acting user may mutate this product: root
// users always, supplier-linked users only for their own supplier's products.
func (p *Product) EditableBy(rd *requestdata.RequestData) bool {
	if rd.IsRoot() {
		return true
	}
	if !rd.HasSupplier() {
		return false
	}
	return p.SupplierID != nil && *p.SupplierID == *rd.SupplierID
}

// DeletableBy is a pure permission check, not a referential-integrity check.
func (p *Product) DeletableBy(rd *requestdata.RequestData) bool {
	return rd.HasPermission(PermissionProductDestroy)
}

// UsedInAnyRecipe reports whether any recipe references one of this product's
// packs. Requires Packs.RecipeIngredients to be preloaded; repos expose the
// EXISTS query for callers that do not hold the aggregate.
func (p *Product) UsedInAnyRecipe() bool {
	for i := range p.Packs {
		if len(p.Packs[i].RecipeIngredients) > 0 {
			return true
		}
	}
	return false
}

// CurrentMonthStatus returns the availability status for the present calendar
// month, falling back to DefaultAvailabilityStatus when no row exists.
func (p *Product) CurrentMonthStatus(now time.Time) AvailabilityStatus {
	label := MonthLabel(now.Month())
	for i := range p.SeasonalAvailabilities {
		if p.SeasonalAvailabilities[i].Month == label {
			return p.SeasonalAvailabilities[i].Status
		}
	}
	return DefaultAvailabilityStatus
}

// SeasonalAvailabilityOrdered returns availability rows in canonical month
// order regardless of how they were stored or loaded.
func (p *Product) SeasonalAvailabilityOrdered() []SeasonalAvailability {
	out := make([]SeasonalAvailability, 0, len(p.SeasonalAvailabilities))
	for _, label := range monthLabels {
		for i := range p.SeasonalAvailabilities {
			if p.SeasonalAvailabilities[i].Month == label {
				out = append(out, p.SeasonalAvailabilities[i])
			}
		}
	}
	return out
}

// IsWater and ContainsNuts are deliberately crude substring heuristics over
// the product name; whole-word matching would change behavior for existing
// catalog data.
func (p *Product) IsWater() bool {
	return strings.Contains(strings.ToLower(p.Name), "water")
}

func (p *Product) ContainsNuts() bool {
	return strings.Contains(strings.ToLower(p.Name), "nut")
}
