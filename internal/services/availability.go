package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// SeasonalInput sets the status for one month. Month must be one of the
// canonical labels.
type SeasonalInput struct {
	Month    string `json:"month" binding:"required,oneof=Jan Feb Mar Apr May June July Aug Sept Oct Nov Dec"`
	StatusID uint   `json:"status_id" binding:"required"`
}

// AvailabilityService maintains a product's seasonal status rows. Months not
// named in the input are left untouched; there is at most one row per
// (product, month).
type AvailabilityService interface {
	InitializeFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, inputs []SeasonalInput) error
	UpdateFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, inputs []SeasonalInput) error
}

type availabilityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SeasonalAvailabilityRepo
}

func NewAvailabilityService(db *gorm.DB, baseLog *logger.Logger, repo repos.SeasonalAvailabilityRepo) AvailabilityService {
	return &availabilityService{
		db:   db,
		log:  baseLog.With("service", "AvailabilityService"),
		repo: repo,
	}
}

func (as *availabilityService) InitializeFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, inputs []SeasonalInput) error {
	return as.upsert(ctx, tx, productID, inputs)
}

func (as *availabilityService) UpdateFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, inputs []SeasonalInput) error {
	return as.upsert(ctx, tx, productID, inputs)
}

func (as *availabilityService) upsert(ctx context.Context, tx *gorm.DB, productID uuid.UUID, inputs []SeasonalInput) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]*types.SeasonalAvailability, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, &types.SeasonalAvailability{
			ID:        uuid.New(),
			ProductID: productID,
			Month:     in.Month,
			StatusID:  in.StatusID,
		})
	}
	if err := as.repo.Upsert(ctx, tx, rows); err != nil {
		return fmt.Errorf("upsert seasonal availability: %w", err)
	}
	return nil
}
