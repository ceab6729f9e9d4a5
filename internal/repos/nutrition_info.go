package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type NutritionInfoRepo interface {
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.NutritionInfo, error)
	Create(ctx context.Context, tx *gorm.DB, info *types.NutritionInfo) error
	Update(ctx context.Context, tx *gorm.DB, info *types.NutritionInfo) error
	GetBasis(ctx context.Context, tx *gorm.DB, basisID uuid.UUID) (*types.NutrientBasis, error)
}

type nutritionInfoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNutritionInfoRepo(db *gorm.DB, baseLog *logger.Logger) NutritionInfoRepo {
	repoLog := baseLog.With("repo", "NutritionInfoRepo")
	return &nutritionInfoRepo{db: db, log: repoLog}
}

func (r *nutritionInfoRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.NutritionInfo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var info types.NutritionInfo
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *nutritionInfoRepo) Create(ctx context.Context, tx *gorm.DB, info *types.NutritionInfo) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(info).Error
}

func (r *nutritionInfoRepo) Update(ctx context.Context, tx *gorm.DB, info *types.NutritionInfo) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(info).Error
}

func (r *nutritionInfoRepo) GetBasis(ctx context.Context, tx *gorm.DB, basisID uuid.UUID) (*types.NutrientBasis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var basis types.NutrientBasis
	if err := transaction.WithContext(ctx).
		Where("id = ?", basisID).
		First(&basis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &basis, nil
}
