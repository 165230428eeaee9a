package service

import (
	"context"
	"errors"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CashService owns the shift lifecycle. Sessions are tenant-scoped: every
// operation takes the caller's kiosk and a session belonging to another kiosk
// is reported as not found.
type CashService interface {
	Open(ctx context.Context, userID, kioskID uuid.UUID, req dto.OpenShiftRequest) (*dto.SessionResponse, error)
	RecordMovement(ctx context.Context, userID, kioskID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	Balance(ctx context.Context, kioskID, sessionID uuid.UUID) (*dto.BalanceResponse, error)
	Close(ctx context.Context, userID, kioskID uuid.UUID, req dto.CloseShiftRequest) (*dto.CloseShiftResponse, error)
	Active(ctx context.Context, kioskID uuid.UUID) (*dto.SessionResponse, error)
	Report(ctx context.Context, kioskID, sessionID uuid.UUID) (*dto.SessionResponse, error)
	History(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.SessionListResponse, error)
	Expenses(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.ExpenseListResponse, error)
	// RequireOpen is the boundary guard entry flows (movements, linked
	// expenses) call before accepting entries against a session.
	RequireOpen(ctx context.Context, kioskID, sessionID uuid.UUID) error
}

type cashService struct {
	repo       repository.CashRepository
	ledger     repository.LedgerRepository
	dispatcher *worker.Dispatcher
}

func NewCashService(repo repository.CashRepository, ledger repository.LedgerRepository, dispatcher *worker.Dispatcher) CashService {
	return &cashService{repo: repo, ledger: ledger, dispatcher: dispatcher}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *cashService) Open(ctx context.Context, userID, kioskID uuid.UUID, req dto.OpenShiftRequest) (*dto.SessionResponse, error) {
	reqKiosk, err := uuid.Parse(req.KioskID)
	if err != nil {
		return nil, validationf("invalid kiosk_id")
	}
	if reqKiosk != kioskID {
		return nil, validationf("kiosk_id does not match the authenticated kiosk")
	}
	if req.InitialCash.IsNegative() {
		return nil, validationf("initial_cash must not be negative")
	}

	// Fast pre-check for a friendly error. The real guarantee is the partial
	// unique index on (kiosk_id) WHERE status = 'open': concurrent opens that
	// slip past this check fail on insert with a duplicate-key error.
	if existing, err := s.repo.FindOpenByKiosk(ctx, kioskID); err == nil && existing != nil {
		return nil, conflictf("a cash session is already open for this kiosk")
	}

	session := &model.CashSession{
		KioskID:     kioskID,
		OpenedBy:    userID,
		InitialCash: req.InitialCash,
		Status:      model.SessionOpen,
		OpenedAt:    time.Now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a cash session is already open for this kiosk")
		}
		return nil, storageErr("could not open cash session", err)
	}

	return sessionToResponse(session), nil
}

// ── RecordMovement ───────────────────────────────────────────────────────────
// Movements are immutable: created once, never updated or deleted.

func (s *cashService) RecordMovement(ctx context.Context, userID, kioskID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		return nil, validationf("invalid cash_session_id")
	}
	if !req.Amount.IsPositive() {
		return nil, validationf("amount must be greater than zero")
	}

	session, err := s.findSession(ctx, kioskID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionOpen {
		return nil, invalidStatef("cash session is closed")
	}

	mov := &model.CashMovement{
		ID:            uuid.New(),
		CashSessionID: sessionID,
		UserID:        userID,
		Type:          req.Type,
		Amount:        req.Amount,
		Reason:        req.Reason,
	}

	// The expense ID is assigned before the movement is written: the movement
	// row is immutable, so the link must be in place from the start. When the
	// expense write later fails the link stays and the warning tells the
	// caller the expense itself is missing.
	var expense *model.Expense
	if req.Type == model.MovementOut && req.LinkAsExpense {
		expense = &model.Expense{
			ID:          uuid.New(),
			KioskID:     session.KioskID,
			UserID:      userID,
			Amount:      req.Amount,
			Description: req.Reason,
		}
		if req.CategoryID != nil {
			if catID, err := uuid.Parse(*req.CategoryID); err == nil {
				expense.CategoryID = &catID
			}
		}
		mov.LinkedExpenseID = &expense.ID
	}

	// Primary write. A failure here fails the whole operation.
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, storageErr("could not record cash movement", err)
	}

	resp := &dto.MovementResponse{MovementID: mov.ID.String()}

	// Secondary write, best-effort: the movement is already committed and is
	// never rolled back when the expense fails.
	if expense != nil {
		if err := s.ledger.CreateExpense(ctx, expense); err != nil {
			log.Warn().
				Str("cash_session_id", sessionID.String()).
				Str("movement_id", mov.ID.String()).
				Err(err).
				Msg("linked expense write failed; movement committed without it")
			warning := "movement recorded, but the linked expense could not be saved"
			resp.ExpenseWarning = &warning
		} else {
			id := expense.ID.String()
			resp.LinkedExpenseID = &id
		}
	}

	return resp, nil
}

// ── Balance ──────────────────────────────────────────────────────────────────
// Pure read over the ledger; cheap enough to recompute on every poll.

func (s *cashService) Balance(ctx context.Context, kioskID, sessionID uuid.UUID) (*dto.BalanceResponse, error) {
	session, err := s.findSession(ctx, kioskID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, session)
}

func (s *cashService) balanceOf(ctx context.Context, session *model.CashSession) (*dto.BalanceResponse, error) {
	cashSales, err := s.ledger.SumCashSales(ctx, session.KioskID, session.OpenedAt)
	if err != nil {
		return nil, storageErr("could not sum cash sales", err)
	}
	supplierPayments, err := s.ledger.SumSupplierPayments(ctx, session.KioskID, session.OpenedAt)
	if err != nil {
		return nil, storageErr("could not sum supplier payments", err)
	}
	manualIn, err := s.repo.SumMovements(ctx, session.ID, model.MovementIn)
	if err != nil {
		return nil, storageErr("could not sum cash movements", err)
	}
	manualOut, err := s.repo.SumMovements(ctx, session.ID, model.MovementOut)
	if err != nil {
		return nil, storageErr("could not sum cash movements", err)
	}

	theoretical := session.InitialCash.
		Add(cashSales).
		Add(manualIn).
		Sub(manualOut).
		Sub(supplierPayments)

	return &dto.BalanceResponse{
		CashSessionID:    session.ID.String(),
		InitialCash:      session.InitialCash,
		CashSales:        cashSales,
		ManualIn:         manualIn,
		ManualOut:        manualOut,
		SupplierPayments: supplierPayments,
		Theoretical:      theoretical,
	}, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// Snapshots the expected balance at the instant of closing and flips the
// session to closed in one guarded update. Movements recorded afterwards
// never change the stored snapshot, and a second close always fails.

func (s *cashService) Close(ctx context.Context, userID, kioskID uuid.UUID, req dto.CloseShiftRequest) (*dto.CloseShiftResponse, error) {
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		return nil, validationf("invalid cash_session_id")
	}
	if req.CountedCash.IsNegative() {
		return nil, validationf("counted_cash must not be negative")
	}

	session, err := s.findSession(ctx, kioskID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionOpen {
		return nil, invalidStatef("cash session is already closed")
	}

	balance, err := s.balanceOf(ctx, session)
	if err != nil {
		return nil, err
	}

	expected := balance.Theoretical
	counted := req.CountedCash
	difference := counted.Sub(expected)
	now := time.Now()

	session.ExpectedCash = &expected
	session.CountedCash = &counted
	session.Difference = &difference
	session.Notes = req.Notes
	session.ClosedBy = &userID
	session.ClosedAt = &now

	closed, err := s.repo.CloseSession(ctx, session)
	if err != nil {
		return nil, storageErr("could not close cash session", err)
	}
	if !closed {
		// Lost the race against another close; the stored snapshot is theirs.
		return nil, invalidStatef("cash session is already closed")
	}

	// Best-effort: queue the shift report email. Failure never unwinds the close.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueShiftReport(ctx, worker.ShiftReportPayload{SessionID: sessionID.String()}); err != nil {
			log.Warn().Str("cash_session_id", sessionID.String()).Err(err).Msg("could not enqueue shift report")
		}
	}

	return &dto.CloseShiftResponse{
		CashSessionID: sessionID.String(),
		ExpectedCash:  expected,
		CountedCash:   counted,
		Difference:    difference,
		Status:        model.SessionClosed,
	}, nil
}

// ── Read-only projections ────────────────────────────────────────────────────

func (s *cashService) Active(ctx context.Context, kioskID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindOpenByKiosk(ctx, kioskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("no open cash session for this kiosk")
		}
		return nil, storageErr("could not load cash session", err)
	}
	return sessionToResponse(session), nil
}

func (s *cashService) Report(ctx context.Context, kioskID, sessionID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.findSession(ctx, kioskID, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *cashService) History(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessions, total, err := s.repo.ListSessions(ctx, kioskID, page, limit)
	if err != nil {
		return nil, storageErr("could not list cash sessions", err)
	}
	data := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *cashService) Expenses(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.ExpenseListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, total, err := s.ledger.ListExpenses(ctx, kioskID, page, limit)
	if err != nil {
		return nil, storageErr("could not list expenses", err)
	}
	data := make([]dto.ExpenseResponse, 0, len(rows))
	for _, e := range rows {
		resp := dto.ExpenseResponse{
			ID:          e.ID.String(),
			Amount:      e.Amount,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if e.CategoryID != nil {
			id := e.CategoryID.String()
			resp.CategoryID = &id
		}
		data = append(data, resp)
	}
	return &dto.ExpenseListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *cashService) RequireOpen(ctx context.Context, kioskID, sessionID uuid.UUID) error {
	session, err := s.findSession(ctx, kioskID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionOpen {
		return invalidStatef("no open cash session")
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// findSession loads a session and enforces tenancy: a session owned by
// another kiosk is indistinguishable from a missing one.
func (s *cashService) findSession(ctx context.Context, kioskID, id uuid.UUID) (*model.CashSession, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("cash session not found")
		}
		return nil, storageErr("could not load cash session", err)
	}
	if session.KioskID != kioskID {
		return nil, notFoundf("cash session not found")
	}
	return session, nil
}

func sessionToResponse(s *model.CashSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		CashSessionID: s.ID.String(),
		KioskID:       s.KioskID.String(),
		OpenedBy:      s.OpenedBy.String(),
		InitialCash:   s.InitialCash,
		Status:        s.Status,
		ExpectedCash:  s.ExpectedCash,
		CountedCash:   s.CountedCash,
		Difference:    s.Difference,
		Notes:         s.Notes,
		OpenedAt:      s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
