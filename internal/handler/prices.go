package handler

import (
	"net/http"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type PriceHandler struct {
	svc service.PricingService
}

func NewPriceHandler(svc service.PricingService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

// Check godoc
// @Summary  Resolve the effective price of a product by barcode
// @Description  Applies the highest-priority active price list whose schedule
// @Description  covers the instant. Pass ?at=RFC3339 to resolve for another
// @Description  moment (previewing a promotion); omitted means now.
// @Tags     prices
// @Produce  json
// @Param    barcode path  string true  "Product barcode"
// @Param    at      query string false "RFC3339 instant"
// @Success  200 {object} dto.PriceCheckResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/price/{barcode} [get]
func (h *PriceHandler) Check(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}

	var at time.Time
	if raw := c.Query("at"); raw != "" {
		var err error
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("at must be an RFC3339 timestamp"))
			return
		}
	}

	resp, err := h.svc.CheckPrice(c.Request.Context(), kioskID, c.Param("barcode"), at)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
