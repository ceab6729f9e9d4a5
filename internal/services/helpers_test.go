package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/requestdata"
	"github.com/pantrywise/catalog-backend/internal/types"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&types.User{},
		&types.Supplier{},
		&types.Brand{},
		&types.FoodCategory{},
		&types.Density{},
		&types.NutrientBasis{},
		&types.Measurement{},
		&types.AvailabilityStatus{},
		&types.Product{},
		&types.Preparation{},
		&types.ProductPack{},
		&types.SeasonalAvailability{},
		&types.Diet{},
		&types.Tag{},
		&types.NutritionInfo{},
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.ProductAudit{},
	))
	return db
}

// capturingNotifier records workflow notifications in call order so tests can
// assert the event sequence without going through the async bus.
type capturingNotifier struct {
	mu        sync.Mutex
	calls     []string
	oldValues map[string]interface{}
	newValues map[string]interface{}
}

func (n *capturingNotifier) record(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, name)
}

func (n *capturingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}

func (n *capturingNotifier) ImageAttach(product *types.Product)           { n.record("image.attach") }
func (n *capturingNotifier) ImageUpdate(product *types.Product)           { n.record("image.update") }
func (n *capturingNotifier) PriceAverageRecompute(product *types.Product) { n.record("price.recompute") }
func (n *capturingNotifier) Stored(product *types.Product)                { n.record("stored") }
func (n *capturingNotifier) Updated(product *types.Product)               { n.record("updated") }

func (n *capturingNotifier) AuditStored(product *types.Product, userID *uuid.UUID, newValues map[string]interface{}) {
	n.mu.Lock()
	n.newValues = newValues
	n.mu.Unlock()
	n.record("audit.stored")
}

func (n *capturingNotifier) AuditUpdated(product *types.Product, userID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	n.mu.Lock()
	n.oldValues = oldValues
	n.newValues = newValues
	n.mu.Unlock()
	n.record("audit.updated")
}

// testEnv wires the full service stack over a test database.
type testEnv struct {
	db           *gorm.DB
	productRepo  repos.ProductRepo
	prepRepo     repos.PreparationRepo
	packRepo     repos.ProductPackRepo
	dietRepo     repos.DietRepo
	tagRepo      repos.TagRepo
	seasonalRepo repos.SeasonalAvailabilityRepo
	nutritionRepo repos.NutritionInfoRepo
	auditRepo    repos.ProductAuditRepo

	collections  CollectionsService
	nutrition    NutritionService
	availability AvailabilityService
	notifier     *capturingNotifier
	products     ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := logger.NewNop()

	env := &testEnv{
		db:            db,
		productRepo:   repos.NewProductRepo(db, log),
		prepRepo:      repos.NewPreparationRepo(db, log),
		packRepo:      repos.NewProductPackRepo(db, log),
		dietRepo:      repos.NewDietRepo(db, log),
		tagRepo:       repos.NewTagRepo(db, log),
		seasonalRepo:  repos.NewSeasonalAvailabilityRepo(db, log),
		nutritionRepo: repos.NewNutritionInfoRepo(db, log),
		auditRepo:     repos.NewProductAuditRepo(db, log),
		notifier:      &capturingNotifier{},
	}
	env.collections = NewCollectionsService(db, log, env.prepRepo, env.packRepo, env.dietRepo, env.tagRepo)
	env.nutrition = NewNutritionService(db, log, env.nutritionRepo)
	env.availability = NewAvailabilityService(db, log, env.seasonalRepo)
	env.products = NewProductService(db, log, env.productRepo, env.dietRepo, env.collections, env.nutrition, env.availability, env.notifier)
	return env
}

func authCtx(rd *requestdata.RequestData) context.Context {
	return requestdata.WithRequestData(context.Background(), rd)
}

func (e *testEnv) seedProduct(t *testing.T, product *types.Product) *types.Product {
	t.Helper()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	_, err := e.productRepo.Create(context.Background(), nil, product)
	require.NoError(t, err)
	return product
}

func (e *testEnv) seedDiet(t *testing.T, name, slug string) *types.Diet {
	t.Helper()
	diet := &types.Diet{ID: uuid.New(), Name: name, Slug: slug}
	require.NoError(t, e.db.Create(diet).Error)
	return diet
}

func (e *testEnv) seedMeasurement(t *testing.T, name, kind string, factor float64) *types.Measurement {
	t.Helper()
	m := &types.Measurement{ID: uuid.New(), Name: name, Kind: kind, Factor: factor}
	require.NoError(t, e.db.Create(m).Error)
	return m
}

func (e *testEnv) seedDensity(t *testing.T, name string, value float64) *types.Density {
	t.Helper()
	d := &types.Density{ID: uuid.New(), Name: name, Value: value}
	require.NoError(t, e.db.Create(d).Error)
	return d
}

func (e *testEnv) seedStatus(t *testing.T, id uint, status string) *types.AvailabilityStatus {
	t.Helper()
	s := &types.AvailabilityStatus{ID: id, Status: status, IconClass: "active-status"}
	require.NoError(t, e.db.Create(s).Error)
	return s
}

func (e *testEnv) seedBasis(t *testing.T, name string, kcal, protein float64) *types.NutrientBasis {
	t.Helper()
	b := &types.NutrientBasis{ID: uuid.New(), Name: name, Kcal: kcal, Protein: protein}
	require.NoError(t, e.db.Create(b).Error)
	return b
}
