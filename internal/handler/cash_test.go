package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCashService lets each test script the service layer. Unused methods
// stay nil and would panic if reached, which is the point.
type stubCashService struct {
	requireOpen    func(kioskID, sessionID uuid.UUID) error
	recordMovement func(userID, kioskID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
}

func (s *stubCashService) Open(_ context.Context, _, _ uuid.UUID, _ dto.OpenShiftRequest) (*dto.SessionResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) RecordMovement(_ context.Context, userID, kioskID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	return s.recordMovement(userID, kioskID, req)
}

func (s *stubCashService) Balance(_ context.Context, _, _ uuid.UUID) (*dto.BalanceResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) Close(_ context.Context, _, _ uuid.UUID, _ dto.CloseShiftRequest) (*dto.CloseShiftResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) Active(_ context.Context, _ uuid.UUID) (*dto.SessionResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) Report(_ context.Context, _, _ uuid.UUID) (*dto.SessionResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) History(_ context.Context, _ uuid.UUID, _, _ int) (*dto.SessionListResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) Expenses(_ context.Context, _ uuid.UUID, _, _ int) (*dto.ExpenseListResponse, error) {
	panic("not scripted")
}

func (s *stubCashService) RequireOpen(_ context.Context, kioskID, sessionID uuid.UUID) error {
	return s.requireOpen(kioskID, sessionID)
}

func movementRouter(svc service.CashService, claims *middleware.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	})
	h := NewCashHandler(svc)
	r.POST("/v1/cash/movement", h.Movement)
	return r
}

func postMovement(t *testing.T, r *gin.Engine, req dto.MovementRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/v1/cash/movement", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

func TestMovementRecordsOnOpenSession(t *testing.T) {
	kioskID, userID, sessionID := uuid.New(), uuid.New(), uuid.New()
	var checkedSession uuid.UUID
	svc := &stubCashService{
		requireOpen: func(k, s uuid.UUID) error {
			assert.Equal(t, kioskID, k, "the guard runs against the token's kiosk")
			checkedSession = s
			return nil
		},
		recordMovement: func(u, k uuid.UUID, _ dto.MovementRequest) (*dto.MovementResponse, error) {
			assert.Equal(t, userID, u)
			assert.Equal(t, kioskID, k)
			return &dto.MovementResponse{MovementID: uuid.New().String()}, nil
		},
	}
	r := movementRouter(svc, &middleware.JWTClaims{UserID: userID.String(), KioskID: kioskID.String()})

	w := postMovement(t, r, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          "in",
		Amount:        decimal.NewFromInt(20),
		Reason:        "change fund top-up",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, sessionID, checkedSession, "the guard checks the session from the body")
}

func TestMovementRejectedBeforeWriteWhenSessionClosed(t *testing.T) {
	kioskID, sessionID := uuid.New(), uuid.New()
	recorded := false
	svc := &stubCashService{
		requireOpen: func(_, _ uuid.UUID) error {
			return &service.Error{Kind: service.KindInvalidState, Msg: "cash session is already closed"}
		},
		recordMovement: func(_, _ uuid.UUID, _ dto.MovementRequest) (*dto.MovementResponse, error) {
			recorded = true
			return &dto.MovementResponse{}, nil
		},
	}
	r := movementRouter(svc, &middleware.JWTClaims{UserID: uuid.New().String(), KioskID: kioskID.String()})

	w := postMovement(t, r, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          "out",
		Amount:        decimal.NewFromInt(10),
		Reason:        "late deposit",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, recorded, "the ledger is never touched when the guard rejects")
}

func TestMovementOnForeignSessionIsNotFound(t *testing.T) {
	svc := &stubCashService{
		requireOpen: func(_, _ uuid.UUID) error {
			return &service.Error{Kind: service.KindNotFound, Msg: "cash session not found"}
		},
		recordMovement: func(_, _ uuid.UUID, _ dto.MovementRequest) (*dto.MovementResponse, error) {
			t.Fatal("must not record on a foreign session")
			return nil, nil
		},
	}
	r := movementRouter(svc, &middleware.JWTClaims{UserID: uuid.New().String(), KioskID: uuid.New().String()})

	w := postMovement(t, r, dto.MovementRequest{
		CashSessionID: uuid.New().String(),
		Type:          "out",
		Amount:        decimal.NewFromInt(10),
		Reason:        "ice for the fridge",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
