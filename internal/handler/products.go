package handler

import (
	"net/http"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	svc service.CatalogService
}

func NewProductHandler(svc service.CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    request body dto.CreateProductRequest true "Product"
// @Success  201 {object} dto.ProductResponse
// @Failure  409 {object} apierror.APIError
// @Router   /v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary  Fetch one product
// @Tags     products
// @Produce  json
// @Param    id path string true "Product ID"
// @Success  200 {object} dto.ProductResponse
// @Router   /v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), kioskID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  Paginated product listing for the kiosk
// @Tags     products
// @Produce  json
// @Param    page  query int false "Page"  default(1)
// @Param    limit query int false "Limit" default(50)
// @Success  200 {object} dto.ProductListResponse
// @Router   /v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.svc.ListProducts(c.Request.Context(), kioskID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BulkPriceChange godoc
// @Summary  Apply a percentage change to a set of base prices
// @Description  Rewrites the catalog inside one transaction and appends an
// @Description  audit row per product. This is the manual path; scheduled
// @Description  price lists never modify base prices.
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    request body dto.BulkPriceChangeRequest true "Change"
// @Success  200 {object} dto.BulkPriceChangeResponse
// @Router   /v1/products/bulk-price [post]
func (h *ProductHandler) BulkPriceChange(c *gin.Context) {
	var req dto.BulkPriceChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.BulkPriceChange(c.Request.Context(), userID, kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceHistory godoc
// @Summary  Audit trail of base price changes for a product
// @Tags     products
// @Produce  json
// @Param    id    path  string true  "Product ID"
// @Param    page  query int    false "Page"  default(1)
// @Param    limit query int    false "Limit" default(20)
// @Success  200 {object} dto.PriceChangeListResponse
// @Router   /v1/products/{id}/price-history [get]
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.svc.PriceHistory(c.Request.Context(), kioskID, id, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
