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

// NutritionService maintains the per-product nutrition breakdown derived from
// the product's nutrient basis reference.
type NutritionService interface {
	InitializeFor(ctx context.Context, tx *gorm.DB, product *types.Product) error
	RecomputeFor(ctx context.Context, tx *gorm.DB, product *types.Product) error
}

type nutritionService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.NutritionInfoRepo
}

func NewNutritionService(db *gorm.DB, baseLog *logger.Logger, repo repos.NutritionInfoRepo) NutritionService {
	return &nutritionService{
		db:   db,
		log:  baseLog.With("service", "NutritionService"),
		repo: repo,
	}
}

func (ns *nutritionService) InitializeFor(ctx context.Context, tx *gorm.DB, product *types.Product) error {
	info := &types.NutritionInfo{
		ID:        uuid.New(),
		ProductID: product.ID,
	}
	ns.applyBasis(ctx, tx, product, info)
	if err := ns.repo.Create(ctx, tx, info); err != nil {
		return fmt.Errorf("create nutrition info: %w", err)
	}
	return nil
}

func (ns *nutritionService) RecomputeFor(ctx context.Context, tx *gorm.DB, product *types.Product) error {
	info, err := ns.repo.GetByProduct(ctx, tx, product.ID)
	if err != nil {
		return fmt.Errorf("load nutrition info: %w", err)
	}
	if info == nil {
		return ns.InitializeFor(ctx, tx, product)
	}
	ns.applyBasis(ctx, tx, product, info)
	if err := ns.repo.Update(ctx, tx, info); err != nil {
		return fmt.Errorf("update nutrition info: %w", err)
	}
	return nil
}

// applyBasis copies the canonical per-100g values onto the product's row. A
// product without a basis reference gets a zeroed breakdown.
func (ns *nutritionService) applyBasis(ctx context.Context, tx *gorm.DB, product *types.Product, info *types.NutritionInfo) {
	info.Kcal, info.Protein, info.Fat, info.Carbs, info.Fiber, info.Salt = 0, 0, 0, 0, 0, 0
	if product.NutrientBasisID == nil {
		return
	}
	basis, err := ns.repo.GetBasis(ctx, tx, *product.NutrientBasisID)
	if err != nil {
		ns.log.Warn("failed to load nutrient basis", "error", err, "product_id", product.ID)
		return
	}
	if basis == nil {
		return
	}
	info.Kcal = basis.Kcal
	info.Protein = basis.Protein
	info.Fat = basis.Fat
	info.Carbs = basis.Carbs
	info.Fiber = basis.Fiber
	info.Salt = basis.Salt
}
