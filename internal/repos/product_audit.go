package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type ProductAuditRepo interface {
	Create(ctx context.Context, tx *gorm.DB, audit *types.ProductAudit) error
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductAudit, error)
}

type productAuditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductAuditRepo(db *gorm.DB, baseLog *logger.Logger) ProductAuditRepo {
	repoLog := baseLog.With("repo", "ProductAuditRepo")
	return &productAuditRepo{db: db, log: repoLog}
}

func (r *productAuditRepo) Create(ctx context.Context, tx *gorm.DB, audit *types.ProductAudit) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(audit).Error
}

func (r *productAuditRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.ProductAudit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProductAudit
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
