package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type PreparationRepo interface {
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Preparation, error)
	Create(ctx context.Context, tx *gorm.DB, preparations []*types.Preparation) ([]*types.Preparation, error)
	Update(ctx context.Context, tx *gorm.DB, preparation *types.Preparation) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type preparationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreparationRepo(db *gorm.DB, baseLog *logger.Logger) PreparationRepo {
	repoLog := baseLog.With("repo", "PreparationRepo")
	return &preparationRepo{db: db, log: repoLog}
}

func (r *preparationRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Preparation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Preparation
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *preparationRepo) Create(ctx context.Context, tx *gorm.DB, preparations []*types.Preparation) ([]*types.Preparation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(preparations) == 0 {
		return []*types.Preparation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&preparations).Error; err != nil {
		return nil, err
	}
	return preparations, nil
}

func (r *preparationRepo) Update(ctx context.Context, tx *gorm.DB, preparation *types.Preparation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(preparation).Error
}

func (r *preparationRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Delete(&types.Preparation{}, "id IN ?", ids).Error
}
