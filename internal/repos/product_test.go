package repos

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.Supplier{},
		&types.FoodCategory{},
		&types.Measurement{},
		&types.Product{},
		&types.ProductPack{},
		&types.Recipe{},
		&types.RecipeIngredient{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, code string) *types.FoodCategory {
	t.Helper()
	cat := &types.FoodCategory{ID: uuid.New(), Code: code, Name: code}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func TestGetFilteredProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, logger.NewNop())
	ctx := context.Background()

	veg := seedCategory(t, db, "VEG")
	fruit := seedCategory(t, db, "FRUIT")
	supplier := &types.Supplier{ID: uuid.New(), Name: "Greens Co"}
	require.NoError(t, db.Create(supplier).Error)

	seed := []*types.Product{
		{ID: uuid.New(), Name: "Carrot", FoodCategoryID: &veg.ID, SupplierID: &supplier.ID, AveragePrice: decimal.NewFromFloat(1.5)},
		{ID: uuid.New(), Name: "Black carrot", FoodCategoryID: &veg.ID, AveragePrice: decimal.NewFromFloat(4)},
		{ID: uuid.New(), Name: "Apple", FoodCategoryID: &fruit.ID, AveragePrice: decimal.NewFromFloat(2)},
	}
	for _, p := range seed {
		_, err := repo.Create(ctx, nil, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		filters   ProductFilters
		wantTotal int64
		wantNames []string
	}{
		{
			name:      "no filters",
			filters:   ProductFilters{},
			wantTotal: 3,
			wantNames: []string{"Carrot", "Black carrot", "Apple"},
		},
		{
			name:      "by category",
			filters:   ProductFilters{CategoryCode: "FRUIT"},
			wantTotal: 1,
			wantNames: []string{"Apple"},
		},
		{
			name:      "name is case insensitive substring",
			filters:   ProductFilters{Name: "CARROT"},
			wantTotal: 2,
			wantNames: []string{"Carrot", "Black carrot"},
		},
		{
			name: "by supplier",
			filters: func() ProductFilters {
				return ProductFilters{SupplierID: &supplier.ID}
			}(),
			wantTotal: 1,
			wantNames: []string{"Carrot"},
		},
		{
			name: "price ceiling",
			filters: func() ProductFilters {
				ceil := 2.5
				return ProductFilters{PriceBelow: &ceil}
			}(),
			wantTotal: 2,
			wantNames: []string{"Carrot", "Apple"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.GetFiltered(ctx, nil, 0, 10, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}
}

func TestGetFilteredPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, nil, &types.Product{ID: uuid.New(), Name: fmt.Sprintf("Product %d", i)})
		require.NoError(t, err)
	}

	products, total, err := repo.GetFiltered(ctx, nil, 3, 10, ProductFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total, "total counts all matches, not the page")
	assert.Len(t, products, 2)
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, logger.NewNop())

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSoftDeleteHidesProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, logger.NewNop())
	ctx := context.Background()

	product := &types.Product{ID: uuid.New(), Name: "Carrot"}
	_, err := repo.Create(ctx, nil, product)
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, nil, product.ID))

	_, err = repo.GetByID(ctx, nil, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, total, err := repo.GetFiltered(ctx, nil, 0, 10, ProductFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	var count int64
	require.NoError(t, db.Unscoped().Model(&types.Product{}).Where("id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUsedInAnyRecipeQuery(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db, logger.NewNop())
	ctx := context.Background()

	m := &types.Measurement{ID: uuid.New(), Name: "kg", Kind: types.MeasurementKindWeight, Factor: 1}
	require.NoError(t, db.Create(m).Error)

	product := &types.Product{ID: uuid.New(), Name: "Carrot"}
	_, err := repo.Create(ctx, nil, product)
	require.NoError(t, err)

	pack := &types.ProductPack{ID: uuid.New(), ProductID: product.ID, MeasurementID: m.ID, Volume: 1, Price: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(pack).Error)

	used, err := repo.UsedInAnyRecipe(ctx, nil, product.ID)
	require.NoError(t, err)
	assert.False(t, used)

	recipe := &types.Recipe{ID: uuid.New(), Name: "Soup"}
	require.NoError(t, db.Create(recipe).Error)
	require.NoError(t, db.Create(&types.RecipeIngredient{
		ID:            uuid.New(),
		RecipeID:      recipe.ID,
		ProductPackID: pack.ID,
		Quantity:      2,
	}).Error)

	used, err = repo.UsedInAnyRecipe(ctx, nil, product.ID)
	require.NoError(t, err)
	assert.True(t, used)
}
