package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// PreparationInput is one desired yield entry. A nil ID means create; an ID
// matching an existing row means update in place.
type PreparationInput struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Name    string     `json:"name" binding:"required"`
	Value   float64    `json:"value" binding:"gte=0,lte=100"`
	Default bool       `json:"default"`
}

// PackInput is one desired purchasable unit.
type PackInput struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	MeasurementID uuid.UUID  `json:"measurement_id" binding:"required"`
	Volume        float64    `json:"volume" binding:"gt=0"`
	Price         float64    `json:"price" binding:"gte=0"`
}

// CollectionsService reconciles a product's child collections against a new
// desired state. Packs and preparations are diffed; diets are synced as an
// explicit set; tags are replaced wholesale.
type CollectionsService interface {
	ReconcilePreparations(ctx context.Context, tx *gorm.DB, productID uuid.UUID, desired []PreparationInput) error
	ReconcilePacks(ctx context.Context, tx *gorm.DB, product *types.Product, desired []PackInput) error
	SyncDiets(ctx context.Context, tx *gorm.DB, product *types.Product, dietIDs []uuid.UUID) error
	ReplaceTags(ctx context.Context, tx *gorm.DB, productID uuid.UUID, aliases []string) error
	RecomputePackPrices(ctx context.Context, tx *gorm.DB, product *types.Product) error
}

type collectionsService struct {
	db              *gorm.DB
	log             *logger.Logger
	preparationRepo repos.PreparationRepo
	packRepo        repos.ProductPackRepo
	dietRepo        repos.DietRepo
	tagRepo         repos.TagRepo
}

func NewCollectionsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	preparationRepo repos.PreparationRepo,
	packRepo repos.ProductPackRepo,
	dietRepo repos.DietRepo,
	tagRepo repos.TagRepo,
) CollectionsService {
	serviceLog := baseLog.With("service", "CollectionsService")
	return &collectionsService{
		db:              db,
		log:             serviceLog,
		preparationRepo: preparationRepo,
		packRepo:        packRepo,
		dietRepo:        dietRepo,
		tagRepo:         tagRepo,
	}
}

func (cs *collectionsService) ReconcilePreparations(ctx context.Context, tx *gorm.DB, productID uuid.UUID, desired []PreparationInput) error {
	existing, err := cs.preparationRepo.GetByProduct(ctx, tx, productID)
	if err != nil {
		return fmt.Errorf("load preparations: %w", err)
	}

	byID := make(map[uuid.UUID]*types.Preparation, len(existing))
	for _, prep := range existing {
		byID[prep.ID] = prep
	}

	keep := make(map[uuid.UUID]bool, len(desired))
	var toCreate []*types.Preparation
	for _, in := range desired {
		if in.ID != nil {
			if prep, ok := byID[*in.ID]; ok {
				keep[prep.ID] = true
				prep.Name = in.Name
				prep.Value = in.Value
				prep.Default = in.Default
				if err := cs.preparationRepo.Update(ctx, tx, prep); err != nil {
					return fmt.Errorf("update preparation: %w", err)
				}
				continue
			}
		}
		toCreate = append(toCreate, &types.Preparation{
			ID:        uuid.New(),
			ProductID: productID,
			Name:      in.Name,
			Value:     in.Value,
			Default:   in.Default,
		})
	}

	var toDelete []uuid.UUID
	for _, prep := range existing {
		if !keep[prep.ID] {
			toDelete = append(toDelete, prep.ID)
		}
	}
	if err := cs.preparationRepo.DeleteByIDs(ctx, tx, toDelete); err != nil {
		return fmt.Errorf("delete preparations: %w", err)
	}
	if _, err := cs.preparationRepo.Create(ctx, tx, toCreate); err != nil {
		return fmt.Errorf("create preparations: %w", err)
	}
	return nil
}

func (cs *collectionsService) ReconcilePacks(ctx context.Context, tx *gorm.DB, product *types.Product, desired []PackInput) error {
	existing, err := cs.packRepo.GetByProduct(ctx, tx, product.ID)
	if err != nil {
		return fmt.Errorf("load packs: %w", err)
	}

	byID := make(map[uuid.UUID]*types.ProductPack, len(existing))
	for _, pack := range existing {
		byID[pack.ID] = pack
	}

	keep := make(map[uuid.UUID]bool, len(desired))
	var toCreate []*types.ProductPack
	for _, in := range desired {
		if in.ID != nil {
			if pack, ok := byID[*in.ID]; ok {
				keep[pack.ID] = true
				pack.MeasurementID = in.MeasurementID
				pack.Volume = in.Volume
				pack.Price = decimal.NewFromFloat(in.Price)
				if err := cs.packRepo.Update(ctx, tx, pack); err != nil {
					return fmt.Errorf("update pack: %w", err)
				}
				continue
			}
		}
		toCreate = append(toCreate, &types.ProductPack{
			ID:            uuid.New(),
			ProductID:     product.ID,
			MeasurementID: in.MeasurementID,
			Volume:        in.Volume,
			Price:         decimal.NewFromFloat(in.Price),
		})
	}

	var toDelete []uuid.UUID
	for _, pack := range existing {
		if !keep[pack.ID] {
			toDelete = append(toDelete, pack.ID)
		}
	}
	if err := cs.packRepo.DeleteByIDs(ctx, tx, toDelete); err != nil {
		return fmt.Errorf("delete packs: %w", err)
	}
	if _, err := cs.packRepo.Create(ctx, tx, toCreate); err != nil {
		return fmt.Errorf("create packs: %w", err)
	}

	return cs.RecomputePackPrices(ctx, tx, product)
}

// SyncDiets computes the desired diet id set, appending the nut-allergen diet
// when the product name triggers the nut heuristic, and applies the diff
// against current associations.
func (cs *collectionsService) SyncDiets(ctx context.Context, tx *gorm.DB, product *types.Product, dietIDs []uuid.UUID) error {
	desired := make(map[uuid.UUID]bool, len(dietIDs)+1)
	for _, id := range dietIDs {
		desired[id] = true
	}

	if product.ContainsNuts() {
		nutDiet, err := cs.dietRepo.GetBySlug(ctx, tx, types.DietSlugNutAllergy)
		if err != nil {
			if !errors.Is(err, repos.ErrDietNotFound) {
				return fmt.Errorf("load nut-allergen diet: %w", err)
			}
			cs.log.Warn("nut-allergen diet not seeded, skipping auto-append", "product_id", product.ID)
		} else {
			desired[nutDiet.ID] = true
		}
	}

	current, err := cs.dietRepo.GetProductDietIDs(ctx, tx, product.ID)
	if err != nil {
		return fmt.Errorf("load product diets: %w", err)
	}
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	var toAdd, toRemove []uuid.UUID
	for id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !desired[id] {
			toRemove = append(toRemove, id)
		}
	}

	if err := cs.dietRepo.RemoveProductDiets(ctx, tx, product.ID, toRemove); err != nil {
		return fmt.Errorf("remove diets: %w", err)
	}
	if err := cs.dietRepo.AddProductDiets(ctx, tx, product.ID, toAdd); err != nil {
		return fmt.Errorf("add diets: %w", err)
	}
	return nil
}

// ReplaceTags discards every tag row unconditionally and recreates one per
// alias. Tag ids do not survive an update; that is the existing contract.
func (cs *collectionsService) ReplaceTags(ctx context.Context, tx *gorm.DB, productID uuid.UUID, aliases []string) error {
	if err := cs.tagRepo.DeleteAllForProduct(ctx, tx, productID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	if _, err := cs.tagRepo.CreateForProduct(ctx, tx, productID, aliases); err != nil {
		return fmt.Errorf("create tags: %w", err)
	}
	return nil
}

func (cs *collectionsService) RecomputePackPrices(ctx context.Context, tx *gorm.DB, product *types.Product) error {
	packs, err := cs.packRepo.GetByProduct(ctx, tx, product.ID)
	if err != nil {
		return fmt.Errorf("load packs: %w", err)
	}
	for _, pack := range packs {
		perKg := pack.ComputePricePerKg(product.Density)
		if err := cs.packRepo.SetPricePerKg(ctx, tx, pack.ID, perKg); err != nil {
			return fmt.Errorf("set price per kg: %w", err)
		}
	}
	return nil
}
