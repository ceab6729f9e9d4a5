package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/apierr"
	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/requestdata"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// StoreProductInput is the validated create payload. The polymorphic owner is
// never part of the payload; it is derived from the acting user.
type StoreProductInput struct {
	Name            string             `json:"name" binding:"required"`
	Description     string             `json:"description"`
	URL             string             `json:"url"`
	SKU             string             `json:"sku" binding:"omitempty,max=32"`
	BrandID         *uuid.UUID         `json:"brand_id"`
	SupplierID      *uuid.UUID         `json:"supplier_id"`
	FoodCategoryID  *uuid.UUID         `json:"food_category_id"`
	DensityID       *uuid.UUID         `json:"density_id"`
	NutrientBasisID *uuid.UUID         `json:"nutrient_basis_id"`
	Aliases         []string           `json:"aliases"`
	Preparations    []PreparationInput `json:"preparations" binding:"dive"`
	Packs           []PackInput        `json:"packs" binding:"dive"`
	DietIDs         []uuid.UUID        `json:"diet_ids"`
	Seasonal        []SeasonalInput    `json:"seasonal" binding:"dive"`
}

// UpdateProductInput carries only the attributes present in the request; nil
// pointers and nil slices are absent and leave the stored value untouched.
type UpdateProductInput struct {
	Name            *string             `json:"name" binding:"omitempty,min=1"`
	Description     *string             `json:"description"`
	URL             *string             `json:"url"`
	SKU             *string             `json:"sku" binding:"omitempty,max=32"`
	BrandID         *uuid.UUID          `json:"brand_id"`
	SupplierID      *uuid.UUID          `json:"supplier_id"`
	FoodCategoryID  *uuid.UUID          `json:"food_category_id"`
	DensityID       *uuid.UUID          `json:"density_id"`
	NutrientBasisID *uuid.UUID          `json:"nutrient_basis_id"`
	Aliases         *[]string           `json:"aliases"`
	Preparations    *[]PreparationInput `json:"preparations" binding:"omitempty,dive"`
	Packs           *[]PackInput        `json:"packs" binding:"omitempty,dive"`
	DietIDs         *[]uuid.UUID        `json:"diet_ids"`
	Seasonal        *[]SeasonalInput    `json:"seasonal" binding:"omitempty,dive"`
}

type ProductService interface {
	List(ctx context.Context, tx *gorm.DB, offset, limit int, filters repos.ProductFilters) ([]*types.Product, int64, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	Store(ctx context.Context, tx *gorm.DB, input StoreProductInput) (*types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateProductInput) (*types.Product, error)
	Destroy(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
}

type productService struct {
	db           *gorm.DB
	log          *logger.Logger
	productRepo  repos.ProductRepo
	dietRepo     repos.DietRepo
	collections  CollectionsService
	nutrition    NutritionService
	availability AvailabilityService
	notifier     ProductNotifier
}

func NewProductService(
	db *gorm.DB,
	baseLog *logger.Logger,
	productRepo repos.ProductRepo,
	dietRepo repos.DietRepo,
	collections CollectionsService,
	nutrition NutritionService,
	availability AvailabilityService,
	notifier ProductNotifier,
) ProductService {
	serviceLog := baseLog.With("service", "ProductService")
	return &productService{
		db:           db,
		log:          serviceLog,
		productRepo:  productRepo,
		dietRepo:     dietRepo,
		collections:  collections,
		nutrition:    nutrition,
		availability: availability,
		notifier:     notifier,
	}
}

func (ps *productService) List(ctx context.Context, tx *gorm.DB, offset, limit int, filters repos.ProductFilters) ([]*types.Product, int64, error) {
	return ps.productRepo.GetFiltered(ctx, tx, offset, limit, filters)
}

func (ps *productService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	return ps.productRepo.GetByID(ctx, tx, id)
}

func (ps *productService) Store(ctx context.Context, tx *gorm.DB, input StoreProductInput) (*types.Product, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", ErrNotAuthenticated)
	}

	product := &types.Product{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		URL:             input.URL,
		SKU:             input.SKU,
		BrandID:         input.BrandID,
		SupplierID:      input.SupplierID,
		FoodCategoryID:  input.FoodCategoryID,
		DensityID:       input.DensityID,
		NutrientBasisID: input.NutrientBasisID,
	}
	// Owner comes from the acting user, never from the payload.
	if rd.HasSupplier() {
		product.OwnerType = types.OwnerTypeSupplier
		product.OwnerID = *rd.SupplierID
	} else {
		product.OwnerType = types.OwnerTypeUser
		product.OwnerID = rd.UserID
	}

	run := func(transaction *gorm.DB) error {
		if _, err := ps.productRepo.Create(ctx, transaction, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if err := ps.collections.ReplaceTags(ctx, transaction, product.ID, input.Aliases); err != nil {
			return err
		}
		if err := ps.collections.ReconcilePreparations(ctx, transaction, product.ID, input.Preparations); err != nil {
			return err
		}
		if err := ps.loadDensity(ctx, transaction, product); err != nil {
			return err
		}
		if err := ps.collections.ReconcilePacks(ctx, transaction, product, input.Packs); err != nil {
			return err
		}
		if err := ps.collections.SyncDiets(ctx, transaction, product, input.DietIDs); err != nil {
			return err
		}
		if err := ps.nutrition.InitializeFor(ctx, transaction, product); err != nil {
			return err
		}
		if err := ps.availability.InitializeFor(ctx, transaction, product.ID, input.Seasonal); err != nil {
			return err
		}
		return nil
	}

	if err := ps.runInTransaction(ctx, tx, run); err != nil {
		ps.log.Error("Store failed", "error", err)
		return nil, err
	}

	created, err := ps.productRepo.GetByID(ctx, tx, product.ID)
	if err != nil {
		return nil, err
	}

	// Event order matters: image and price fire before the generic stored and
	// audit events.
	userID := rd.UserID
	ps.notifier.ImageAttach(created)
	ps.notifier.PriceAverageRecompute(created)
	ps.notifier.Stored(created)
	ps.notifier.AuditStored(created, &userID, storeAuditValues(input))

	return created, nil
}

func (ps *productService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateProductInput) (*types.Product, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", ErrNotAuthenticated)
	}

	product, err := ps.productRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	oldValues, newValues := snapshotAndApply(product, input)

	run := func(transaction *gorm.DB) error {
		// When the nutrition reference changed, the breakdown is recomputed
		// before the product row is persisted.
		if _, changed := newValues["nutrient_basis_id"]; changed {
			if err := ps.nutrition.RecomputeFor(ctx, transaction, product); err != nil {
				return err
			}
		}
		if err := ps.productRepo.Save(ctx, transaction, product); err != nil {
			return fmt.Errorf("save product: %w", err)
		}
		if input.Preparations != nil {
			if err := ps.collections.ReconcilePreparations(ctx, transaction, product.ID, *input.Preparations); err != nil {
				return err
			}
		}
		if err := ps.loadDensity(ctx, transaction, product); err != nil {
			return err
		}
		if input.Packs != nil {
			if err := ps.collections.ReconcilePacks(ctx, transaction, product, *input.Packs); err != nil {
				return err
			}
		}
		// Diets re-sync on every update so the nut heuristic tracks renames;
		// an absent diet list keeps the current explicit set.
		dietIDs := currentDietIDs(product)
		if input.DietIDs != nil {
			dietIDs = *input.DietIDs
		}
		if err := ps.collections.SyncDiets(ctx, transaction, product, dietIDs); err != nil {
			return err
		}
		if input.Aliases != nil {
			if err := ps.collections.ReplaceTags(ctx, transaction, product.ID, *input.Aliases); err != nil {
				return err
			}
		}
		if input.Seasonal != nil {
			if err := ps.availability.UpdateFor(ctx, transaction, product.ID, *input.Seasonal); err != nil {
				return err
			}
		}
		if err := ps.collections.RecomputePackPrices(ctx, transaction, product); err != nil {
			return err
		}
		return nil
	}

	if err := ps.runInTransaction(ctx, tx, run); err != nil {
		ps.log.Error("Update failed", "error", err, "product_id", id)
		return nil, err
	}

	// Reload so the response reflects all side effects, not just the
	// in-memory mutations.
	updated, err := ps.productRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	userID := rd.UserID
	ps.notifier.ImageUpdate(updated)
	ps.notifier.Updated(updated)
	ps.notifier.AuditUpdated(updated, &userID, oldValues, newValues)
	ps.notifier.PriceAverageRecompute(updated)

	return updated, nil
}

func (ps *productService) Destroy(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", ErrNotAuthenticated)
	}

	product, err := ps.productRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !product.DeletableBy(rd) {
		return nil, apierr.New(http.StatusUnprocessableEntity, "cannot_delete", ErrCannotDelete)
	}
	if err := ps.productRepo.SoftDelete(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("soft delete product: %w", err)
	}
	return product, nil
}

// runInTransaction wraps the mutation in a single transaction unless the
// caller already supplied one.
func (ps *productService) runInTransaction(ctx context.Context, tx *gorm.DB, fn func(transaction *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return ps.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(transaction)
	})
}

// loadDensity refreshes the product's density relation after attribute
// application so pack price normalization sees the current reference.
func (ps *productService) loadDensity(ctx context.Context, tx *gorm.DB, product *types.Product) error {
	if product.DensityID == nil {
		product.Density = nil
		return nil
	}
	if product.Density != nil && product.Density.ID == *product.DensityID {
		return nil
	}
	transaction := tx
	if transaction == nil {
		transaction = ps.db
	}
	var density types.Density
	if err := transaction.WithContext(ctx).Where("id = ?", *product.DensityID).First(&density).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			product.Density = nil
			return nil
		}
		return fmt.Errorf("load density: %w", err)
	}
	product.Density = &density
	return nil
}

// currentDietIDs derives the explicit diet set to carry over when an update
// payload has no diet list. The nut-allergen diet is excluded: it was never
// explicit, and SyncDiets re-derives it from the current product name, so a
// rename away from nuts drops the association.
func currentDietIDs(product *types.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(product.Diets))
	for _, diet := range product.Diets {
		if diet == nil || diet.Slug == types.DietSlugNutAllergy {
			continue
		}
		ids = append(ids, diet.ID)
	}
	return ids
}

// snapshotAndApply records the prior value of every attribute present in the
// payload, then applies the new value in memory. The returned maps feed the
// audit event.
func snapshotAndApply(product *types.Product, input UpdateProductInput) (map[string]interface{}, map[string]interface{}) {
	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	setString := func(key string, target *string, val *string) {
		if val == nil {
			return
		}
		oldValues[key] = *target
		newValues[key] = *val
		*target = *val
	}
	setID := func(key string, target **uuid.UUID, val *uuid.UUID) {
		if val == nil {
			return
		}
		if *target != nil {
			oldValues[key] = (*target).String()
		} else {
			oldValues[key] = nil
		}
		newValues[key] = val.String()
		*target = val
	}

	setString("name", &product.Name, input.Name)
	setString("description", &product.Description, input.Description)
	setString("url", &product.URL, input.URL)
	setString("sku", &product.SKU, input.SKU)
	setID("brand_id", &product.BrandID, input.BrandID)
	setID("supplier_id", &product.SupplierID, input.SupplierID)
	setID("food_category_id", &product.FoodCategoryID, input.FoodCategoryID)
	setID("density_id", &product.DensityID, input.DensityID)
	setID("nutrient_basis_id", &product.NutrientBasisID, input.NutrientBasisID)

	return oldValues, newValues
}

func storeAuditValues(input StoreProductInput) map[string]interface{} {
	values := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"url":         input.URL,
		"sku":         input.SKU,
	}
	addID := func(key string, id *uuid.UUID) {
		if id != nil {
			values[key] = id.String()
		}
	}
	addID("brand_id", input.BrandID)
	addID("supplier_id", input.SupplierID)
	addID("food_category_id", input.FoodCategoryID)
	addID("density_id", input.DensityID)
	addID("nutrient_basis_id", input.NutrientBasisID)
	return values
}
