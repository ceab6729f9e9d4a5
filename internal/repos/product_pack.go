package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type ProductPackRepo interface {
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductPack, error)
	Create(ctx context.Context, tx *gorm.DB, packs []*types.ProductPack) ([]*types.ProductPack, error)
	Update(ctx context.Context, tx *gorm.DB, pack *types.ProductPack) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SetPricePerKg(ctx context.Context, tx *gorm.DB, packID uuid.UUID, pricePerKg decimal.Decimal) error
	GetMeasurements(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Measurement, error)
}

type productPackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductPackRepo(db *gorm.DB, baseLog *logger.Logger) ProductPackRepo {
	repoLog := baseLog.With("repo", "ProductPackRepo")
	return &productPackRepo{db: db, log: repoLog}
}

func (r *productPackRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProductPack
	if err := transaction.WithContext(ctx).
		Preload("Measurement").
		Where("product_id = ?", productID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productPackRepo) Create(ctx context.Context, tx *gorm.DB, packs []*types.ProductPack) ([]*types.ProductPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(packs) == 0 {
		return []*types.ProductPack{}, nil
	}
	if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *productPackRepo) Update(ctx context.Context, tx *gorm.DB, pack *types.ProductPack) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit(clause.Associations).Save(pack).Error
}

func (r *productPackRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Delete(&types.ProductPack{}, "id IN ?", ids).Error
}

func (r *productPackRepo) SetPricePerKg(ctx context.Context, tx *gorm.DB, packID uuid.UUID, pricePerKg decimal.Decimal) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ProductPack{}).
		Where("id = ?", packID).
		Update("price_per_kg", pricePerKg).Error
}

func (r *productPackRepo) GetMeasurements(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Measurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Measurement
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
