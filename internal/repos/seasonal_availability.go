package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type SeasonalAvailabilityRepo interface {
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.SeasonalAvailability, error)
	Upsert(ctx context.Context, tx *gorm.DB, rows []*types.SeasonalAvailability) error
	DeleteByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
}

type seasonalAvailabilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSeasonalAvailabilityRepo(db *gorm.DB, baseLog *logger.Logger) SeasonalAvailabilityRepo {
	repoLog := baseLog.With("repo", "SeasonalAvailabilityRepo")
	return &seasonalAvailabilityRepo{db: db, log: repoLog}
}

func (r *seasonalAvailabilityRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.SeasonalAvailability, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SeasonalAvailability
	if err := transaction.WithContext(ctx).
		Preload("Status").
		Where("product_id = ?", productID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *seasonalAvailabilityRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.SeasonalAvailability) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Omit("Status").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"status_id", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *seasonalAvailabilityRepo) DeleteByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Delete(&types.SeasonalAvailability{}, "product_id = ?", productID).Error
}
