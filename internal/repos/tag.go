package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

const taggableTypeProduct = "product"

type TagRepo interface {
	GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Tag, error)
	DeleteAllForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
	CreateForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, aliases []string) ([]*types.Tag, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	repoLog := baseLog.With("repo", "TagRepo")
	return &tagRepo{db: db, log: repoLog}
}

func (r *tagRepo) GetByProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Where("taggable_type = ? AND taggable_id = ?", taggableTypeProduct, productID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tagRepo) DeleteAllForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Delete(&types.Tag{}, "taggable_type = ? AND taggable_id = ?", taggableTypeProduct, productID).Error
}

func (r *tagRepo) CreateForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, aliases []string) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(aliases) == 0 {
		return []*types.Tag{}, nil
	}
	rows := make([]*types.Tag, 0, len(aliases))
	for _, alias := range aliases {
		rows = append(rows, &types.Tag{
			ID:           uuid.New(),
			Name:         alias,
			TaggableType: taggableTypeProduct,
			TaggableID:   productID,
		})
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
