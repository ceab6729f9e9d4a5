package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

var ErrDietNotFound = errors.New("diet not found")

type DietRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Diet, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Diet, error)
	GetProductDietIDs(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]uuid.UUID, error)
	AddProductDiets(ctx context.Context, tx *gorm.DB, productID uuid.UUID, dietIDs []uuid.UUID) error
	RemoveProductDiets(ctx context.Context, tx *gorm.DB, productID uuid.UUID, dietIDs []uuid.UUID) error
}

type dietRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDietRepo(db *gorm.DB, baseLog *logger.Logger) DietRepo {
	repoLog := baseLog.With("repo", "DietRepo")
	return &dietRepo{db: db, log: repoLog}
}

func (r *dietRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Diet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Diet
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

func (r *dietRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Diet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var diet types.Diet
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&diet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDietNotFound
		}
		return nil, err
	}
	return &diet, nil
}

func (r *dietRepo) GetProductDietIDs(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Table("product_diets").
		Where("product_id = ?", productID).
		Pluck("diet_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *dietRepo) AddProductDiets(ctx context.Context, tx *gorm.DB, productID uuid.UUID, dietIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	for _, dietID := range dietIDs {
		if err := transaction.WithContext(ctx).Exec(
			`INSERT INTO product_diets (product_id, diet_id) VALUES (?, ?)`,
			productID, dietID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *dietRepo) RemoveProductDiets(ctx context.Context, tx *gorm.DB, productID uuid.UUID, dietIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(dietIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Exec(
		`DELETE FROM product_diets WHERE product_id = ? AND diet_id IN ?`,
		productID, dietIDs,
	).Error
}
