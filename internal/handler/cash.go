package handler

import (
	"net/http"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CashHandler exposes the shift lifecycle: open, record movements, check the
// live balance, close with reconciliation, and read back history.
type CashHandler struct {
	svc service.CashService
}

func NewCashHandler(svc service.CashService) *CashHandler {
	return &CashHandler{svc: svc}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
		return uuid.Nil, false
	}
	return id, true
}

// Open godoc
// @Summary  Open a cash session for a kiosk
// @Tags     cash
// @Accept   json
// @Produce  json
// @Param    request body dto.OpenShiftRequest true "Opening data"
// @Success  201 {object} dto.SessionResponse
// @Failure  409 {object} apierror.APIError
// @Router   /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
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
	resp, err := h.svc.Open(c.Request.Context(), userID, kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Movement godoc
// @Summary  Record a manual cash movement
// @Tags     cash
// @Accept   json
// @Produce  json
// @Param    request body dto.MovementRequest true "Movement data"
// @Success  201 {object} dto.MovementResponse
// @Router   /v1/cash/movement [post]
func (h *CashHandler) Movement(c *gin.Context) {
	var req dto.MovementRequest
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
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid cash_session_id"))
		return
	}
	// Reject before touching the ledger: movements only land on a session
	// that is open and belongs to the caller's kiosk.
	if err := h.svc.RequireOpen(c.Request.Context(), kioskID, sessionID); err != nil {
		respondErr(c, err)
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), userID, kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Balance godoc
// @Summary  Theoretical balance of a session
// @Tags     cash
// @Produce  json
// @Param    id path string true "Cash session ID"
// @Success  200 {object} dto.BalanceResponse
// @Router   /v1/cash/{id}/balance [get]
func (h *CashHandler) Balance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), kioskID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close godoc
// @Summary  Close a session with the counted cash
// @Tags     cash
// @Accept   json
// @Produce  json
// @Param    request body dto.CloseShiftRequest true "Closing data"
// @Success  200 {object} dto.CloseShiftResponse
// @Failure  409 {object} apierror.APIError
// @Router   /v1/cash/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
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
	resp, err := h.svc.Close(c.Request.Context(), userID, kioskID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active godoc
// @Summary  The kiosk's currently open session, if any
// @Tags     cash
// @Produce  json
// @Success  200 {object} dto.SessionResponse
// @Router   /v1/cash/active [get]
func (h *CashHandler) Active(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Active(c.Request.Context(), kioskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary  Full report of one session, including the closing snapshot
// @Tags     cash
// @Produce  json
// @Param    id path string true "Cash session ID"
// @Success  200 {object} dto.SessionResponse
// @Router   /v1/cash/{id} [get]
func (h *CashHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), kioskID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expenses godoc
// @Summary  Paginated expense listing for the kiosk
// @Tags     cash
// @Produce  json
// @Param    page  query int false "Page"  default(1)
// @Param    limit query int false "Limit" default(20)
// @Success  200 {object} dto.ExpenseListResponse
// @Router   /v1/expenses [get]
func (h *CashHandler) Expenses(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.svc.Expenses(c.Request.Context(), kioskID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary  Paginated session history for the kiosk
// @Tags     cash
// @Produce  json
// @Param    page  query int false "Page"  default(1)
// @Param    limit query int false "Limit" default(20)
// @Success  200 {object} dto.SessionListResponse
// @Router   /v1/cash/history [get]
func (h *CashHandler) History(c *gin.Context) {
	kioskID, ok := callerKiosk(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	resp, err := h.svc.History(c.Request.Context(), kioskID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
