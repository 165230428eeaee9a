package handler

import (
	"net/http"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PriceListHandler is the admin CRUD surface for scheduled price lists.
type PriceListHandler struct {
	svc service.PriceListService
}

func NewPriceListHandler(svc service.PriceListService) *PriceListHandler {
	return &PriceListHandler{svc: svc}
}

// Create godoc
// @Summary  Create a price list
// @Tags     price-lists
// @Accept   json
// @Produce  json
// @Param    request body dto.PriceListRequest true "Price list"
// @Success  201 {object} dto.PriceListResponse
// @Router   /v1/price-lists [post]
func (h *PriceListHandler) Create(c *gin.Context) {
	var req dto.PriceListRequest
	if !bindAndValidate(c, &req) {
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary  Fetch one price list
// @Tags     price-lists
// @Produce  json
// @Param    id path string true "Price list ID"
// @Success  200 {object} dto.PriceListResponse
// @Router   /v1/price-lists/{id} [get]
func (h *PriceListHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid price list id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), kioskID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List the kiosk's price lists
// @Tags     price-lists
// @Produce  json
// @Param    include_inactive query bool false "Include inactive lists"
// @Success  200 {array} dto.PriceListResponse
// @Router   /v1/price-lists [get]
func (h *PriceListHandler) List(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), kioskID, includeInactive)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary  Replace a price list
// @Tags     price-lists
// @Accept   json
// @Produce  json
// @Param    id      path string               true "Price list ID"
// @Param    request body dto.PriceListRequest true "Price list"
// @Success  200 {object} dto.PriceListResponse
// @Router   /v1/price-lists/{id} [put]
func (h *PriceListHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid price list id"))
		return
	}
	var req dto.PriceListRequest
	if !bindAndValidate(c, &req) {
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), kioskID, id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary  Delete a price list
// @Tags     price-lists
// @Param    id path string true "Price list ID"
// @Success  204
// @Router   /v1/price-lists/{id} [delete]
func (h *PriceListHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid price list id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), kioskID, id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
