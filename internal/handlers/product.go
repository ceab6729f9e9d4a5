package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrywise/catalog-backend/internal/apierr"
	"github.com/pantrywise/catalog-backend/internal/logger"
	"github.com/pantrywise/catalog-backend/internal/repos"
	"github.com/pantrywise/catalog-backend/internal/requestdata"
	"github.com/pantrywise/catalog-backend/internal/services"
	"github.com/pantrywise/catalog-backend/internal/types"
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
}

func NewProductHandler(log *logger.Logger, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		log:            log.With("handler", "ProductHandler"),
		productService: productService,
	}
}

// productDetail augments the raw aggregate with its derived attributes.
type productDetail struct {
	*types.Product
	Waste              float64                  `json:"waste"`
	WasteNote          string                   `json:"waste_note,omitempty"`
	CurrentMonthStatus types.AvailabilityStatus `json:"current_month_status"`
	UsedInRecipe       bool                     `json:"used_in_recipe"`
}

func detailView(product *types.Product) productDetail {
	waste, note := product.DefaultWasteAndNote()
	product.SeasonalAvailabilities = product.SeasonalAvailabilityOrdered()
	return productDetail{
		Product:            product,
		Waste:              waste,
		WasteNote:          note,
		CurrentMonthStatus: product.CurrentMonthStatus(time.Now()),
		UsedInRecipe:       product.UsedInAnyRecipe(),
	}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	offset := 0
	limit := 10

	if oStr := c.Query("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}
	if lStr := c.Query("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	filters := repos.ProductFilters{
		CategoryCode: c.Query("category"),
		Name:         c.Query("q"),
	}
	if sStr := c.Query("supplier_id"); sStr != "" {
		if supplierID, err := uuid.Parse(sStr); err == nil {
			filters.SupplierID = &supplierID
		}
	}
	if pStr := c.Query("price_lt"); pStr != "" {
		if val, err := strconv.ParseFloat(pStr, 64); err == nil {
			filters.PriceBelow = &val
		}
	}

	products, total, err := h.productService.List(c.Request.Context(), nil, offset, limit, filters)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_products_failed", err)
		return
	}
	RespondOK(c, gin.H{"total": total, "products": products})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "product_not_found", repos.ErrProductNotFound)
		return
	}
	product, err := h.productService.Get(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, detailView(product))
}

// POST /api/products
func (h *ProductHandler) Store(c *gin.Context) {
	var input services.StoreProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
		return
	}
	product, err := h.productService.Store(c.Request.Context(), nil, input)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondCreated(c, detailView(product))
}

// PUT|PATCH /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "product_not_found", repos.ErrProductNotFound)
		return
	}

	product, err := h.productService.Get(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !product.EditableBy(rd) {
		RespondError(c, http.StatusForbidden, "forbidden", services.ErrForbidden)
		return
	}

	var input services.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
		return
	}
	updated, err := h.productService.Update(c.Request.Context(), nil, id, input)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, detailView(updated))
}

// DELETE /api/products/:id
func (h *ProductHandler) Destroy(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "product_not_found", repos.ErrProductNotFound)
		return
	}

	existing, err := h.productService.Get(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !existing.EditableBy(rd) {
		RespondError(c, http.StatusForbidden, "forbidden", services.ErrForbidden)
		return
	}

	product, err := h.productService.Destroy(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) respondServiceError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	switch {
	case errors.Is(err, repos.ErrProductNotFound):
		RespondError(c, http.StatusNotFound, "product_not_found", err)
	case errors.Is(err, services.ErrCannotDelete):
		RespondError(c, http.StatusUnprocessableEntity, "cannot_delete", err)
	case errors.Is(err, services.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrNotAuthenticated):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		h.log.Error("product request failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
