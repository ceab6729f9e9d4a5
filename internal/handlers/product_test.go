package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/requestdata"
	"github.com/pantrywise/catalog-backend/internal/services"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type mockProductService struct {
	listOffset  int
	listLimit   int
	listFilters repos.ProductFilters

	product    *types.Product
	err        error
	destroyErr error
}

func (m *mockProductService) List(ctx context.Context, tx *gorm.DB, offset, limit int, filters repos.ProductFilters) ([]*types.Product, int64, error) {
	m.listOffset, m.listLimit, m.listFilters = offset, limit, filters
	if m.err != nil {
		return nil, 0, m.err
	}
	if m.product == nil {
		return []*types.Product{}, 0, nil
	}
	return []*types.Product{m.product}, 1, nil
}

func (m *mockProductService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockProductService) Store(ctx context.Context, tx *gorm.DB, input services.StoreProductInput) (*types.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockProductService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input services.UpdateProductInput) (*types.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockProductService) Destroy(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	if m.destroyErr != nil {
		return nil, m.destroyErr
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func setupRouter(svc services.ProductService, rd *requestdata.RequestData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if rd != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
			c.Next()
		})
	}
	h := NewProductHandler(logger.NewNop(), svc)
	router.GET("/api/products", h.List)
	router.GET("/api/products/:id", h.Get)
	router.POST("/api/products", h.Store)
	router.PUT("/api/products/:id", h.Update)
	router.DELETE("/api/products/:id", h.Destroy)
	return router
}

func TestListParamClamping(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "", 0, 10},
		{"explicit", "?offset=20&limit=50", 20, 50},
		{"limit clamped high", "?limit=500", 0, 100},
		{"limit clamped low", "?limit=0", 0, 1},
		{"garbage ignored", "?offset=abc&limit=xyz", 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProductService{}
			router := setupRouter(svc, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantOffset, svc.listOffset)
			assert.Equal(t, tt.wantLimit, svc.listLimit)
		})
	}
}

func TestListFilterParsing(t *testing.T) {
	svc := &mockProductService{}
	router := setupRouter(svc, nil)
	supplierID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/products?category=VEG&q=carrot&supplier_id="+supplierID.String()+"&price_lt=9.5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VEG", svc.listFilters.CategoryCode)
	assert.Equal(t, "carrot", svc.listFilters.Name)
	require.NotNil(t, svc.listFilters.SupplierID)
	assert.Equal(t, supplierID, *svc.listFilters.SupplierID)
	require.NotNil(t, svc.listFilters.PriceBelow)
	assert.Equal(t, 9.5, *svc.listFilters.PriceBelow)
}

func TestGetDetailView(t *testing.T) {
	product := &types.Product{
		ID:   uuid.New(),
		Name: "Carrot",
		Preparations: []types.Preparation{
			{Name: "peeled", Value: 85, Default: true},
		},
	}
	svc := &mockProductService{product: product}
	router := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 15.0, body["waste"])
	assert.Equal(t, "peeled", body["waste_note"])
	assert.Equal(t, false, body["used_in_recipe"])

	// No seasonal row for the current month: the default status is served.
	status, ok := body["current_month_status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Plentiful local supply", status["status"])
	assert.Equal(t, "active-status", status["icon_class"])
}

func TestGetInvalidID(t *testing.T) {
	svc := &mockProductService{}
	router := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotFound(t *testing.T) {
	svc := &mockProductService{err: repos.ErrProductNotFound}
	router := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "product_not_found", envelope.Error.Code)
}

func TestStoreValidation(t *testing.T) {
	svc := &mockProductService{product: &types.Product{ID: uuid.New(), Name: "Carrot"}}
	router := setupRouter(svc, nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing name", `{"description":"x"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{`, http.StatusUnprocessableEntity},
		{"bad month label", `{"name":"Carrot","seasonal":[{"month":"September","status_id":1}]}`, http.StatusUnprocessableEntity},
		{"valid", `{"name":"Carrot"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestUpdateRequiresAuth(t *testing.T) {
	svc := &mockProductService{}
	router := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+uuid.NewString(), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateForbiddenForOtherSupplier(t *testing.T) {
	ownerSupplier := uuid.New()
	otherSupplier := uuid.New()
	product := &types.Product{ID: uuid.New(), Name: "Carrot", SupplierID: &ownerSupplier}

	svc := &mockProductService{product: product}
	rd := &requestdata.RequestData{UserID: uuid.New(), SupplierID: &otherSupplier}
	router := setupRouter(svc, rd)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+product.ID.String(), strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "forbidden", envelope.Error.Code)
}

func TestUpdateAsRoot(t *testing.T) {
	product := &types.Product{ID: uuid.New(), Name: "Carrot"}
	svc := &mockProductService{product: product}
	rd := &requestdata.RequestData{UserID: uuid.New(), Root: true}
	router := setupRouter(svc, rd)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+product.ID.String(), strings.NewReader(`{"name":"Parsnip"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDestroyRequiresAuth(t *testing.T) {
	svc := &mockProductService{}
	router := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDestroyForbiddenForOtherSupplier(t *testing.T) {
	ownerSupplier := uuid.New()
	otherSupplier := uuid.New()
	product := &types.Product{ID: uuid.New(), Name: "Carrot", SupplierID: &ownerSupplier}

	// Holding the destroy permission is not enough for another supplier's
	// product; the ownership check runs first.
	svc := &mockProductService{product: product}
	rd := &requestdata.RequestData{
		UserID:      uuid.New(),
		SupplierID:  &otherSupplier,
		Permissions: []string{types.PermissionProductDestroy},
	}
	router := setupRouter(svc, rd)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "forbidden", envelope.Error.Code)
}

func TestDestroyWithoutPermission(t *testing.T) {
	product := &types.Product{ID: uuid.New(), Name: "Carrot"}
	svc := &mockProductService{product: product, destroyErr: services.ErrCannotDelete}
	rd := &requestdata.RequestData{UserID: uuid.New(), Root: true}
	router := setupRouter(svc, rd)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "cannot_delete", envelope.Error.Code)
}
