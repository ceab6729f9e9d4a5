package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// ErrProductNotFound is returned when a product lookup comes back empty.
var ErrProductNotFound = errors.New("product not found")

// ProductFilters narrows the catalog listing.
type ProductFilters struct {
	CategoryCode string
	SupplierID   *uuid.UUID
	PriceBelow   *float64
	Name         string
}

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	GetFiltered(ctx context.Context, tx *gorm.DB, offset, limit int, filters ProductFilters) ([]*types.Product, int64, error)
	Save(ctx context.Context, tx *gorm.DB, product *types.Product) error
	UpdateColumns(ctx context.Context, tx *gorm.DB, id uuid.UUID, values map[string]interface{}) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	UsedInAnyRecipe(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var product types.Product
	if err := transaction.WithContext(ctx).
		Preload("Brand").
		Preload("Supplier").
		Preload("FoodCategory").
		Preload("Density").
		Preload("NutrientBasis").
		Preload("Preparations").
		Preload("Packs").
		Preload("Packs.Measurement").
		Preload("Packs.RecipeIngredients").
		Preload("SeasonalAvailabilities").
		Preload("SeasonalAvailabilities.Status").
		Preload("Diets").
		Preload("Tags").
		Preload("NutritionInfo").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (pr *productRepo) GetFiltered(ctx context.Context, tx *gorm.DB, offset, limit int, filters ProductFilters) ([]*types.Product, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var products []*types.Product
	var total int64

	query := transaction.WithContext(ctx).Model(&types.Product{}).
		Joins("LEFT JOIN food_category ON food_category.id = product.food_category_id").
		Preload("Brand").
		Preload("FoodCategory").
		Preload("Supplier")

	if filters.CategoryCode != "" {
		query = query.Where("food_category.code = ?", filters.CategoryCode)
	}
	if filters.SupplierID != nil {
		query = query.Where("product.supplier_id = ?", *filters.SupplierID)
	}
	if filters.PriceBelow != nil {
		query = query.Where("product.average_price < ?", *filters.PriceBelow)
	}
	if filters.Name != "" {
		query = query.Where("LOWER(product.name) LIKE ?", "%"+strings.ToLower(filters.Name)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (pr *productRepo) Save(ctx context.Context, tx *gorm.DB, product *types.Product) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Omit(clause.Associations).
		Save(product).Error
}

func (pr *productRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id uuid.UUID, values map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (pr *productRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Delete(&types.Product{}, "id = ?", id).Error
}

func (pr *productRepo) UsedInAnyRecipe(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Joins("JOIN product_pack ON product_pack.id = recipe_ingredient.product_pack_id").
		Where("product_pack.product_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
