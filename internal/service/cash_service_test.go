package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory fakes ──────────────────────────────────────────────────────────

type fakeCashRepo struct {
	sessions         map[uuid.UUID]*model.CashSession
	movements        []model.CashMovement
	createSessionErr error
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{sessions: map[uuid.UUID]*model.CashSession{}}
}

func (r *fakeCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	if r.createSessionErr != nil {
		return r.createSessionErr
	}
	for _, existing := range r.sessions {
		if existing.KioskID == s.KioskID && existing.Status == model.SessionOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeCashRepo) FindOpenByKiosk(_ context.Context, kioskID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.KioskID == kioskID && s.Status == model.SessionOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeCashRepo) CloseSession(_ context.Context, s *model.CashSession) (bool, error) {
	stored, ok := r.sessions[s.ID]
	if !ok || stored.Status != model.SessionOpen {
		return false, nil
	}
	stored.Status = model.SessionClosed
	stored.ExpectedCash = s.ExpectedCash
	stored.CountedCash = s.CountedCash
	stored.Difference = s.Difference
	stored.Notes = s.Notes
	stored.ClosedBy = s.ClosedBy
	stored.ClosedAt = s.ClosedAt
	return true, nil
}

func (r *fakeCashRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.CashSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCashRepo) SumMovements(_ context.Context, sessionID uuid.UUID, movementType string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.CashSessionID == sessionID && m.Type == movementType {
			total = total.Add(m.Amount)
		}
	}
	return total, nil
}

func (r *fakeCashRepo) ListSessions(_ context.Context, kioskID uuid.UUID, _, _ int) ([]model.CashSession, int64, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.KioskID == kioskID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

type fakeLedgerRepo struct {
	cashSales        decimal.Decimal
	supplierPayments decimal.Decimal
	expenses         []*model.Expense
	expenseErr       error
}

func (r *fakeLedgerRepo) SumCashSales(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return r.cashSales, nil
}

func (r *fakeLedgerRepo) SumSupplierPayments(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return r.supplierPayments, nil
}

func (r *fakeLedgerRepo) CreateExpense(_ context.Context, e *model.Expense) error {
	if r.expenseErr != nil {
		return r.expenseErr
	}
	r.expenses = append(r.expenses, e)
	return nil
}

func (r *fakeLedgerRepo) ListExpenses(_ context.Context, kioskID uuid.UUID, _, _ int) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if e.KioskID == kioskID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func openSession(t *testing.T, svc CashService, kioskID, userID uuid.UUID, initial string) uuid.UUID {
	t.Helper()
	resp, err := svc.Open(context.Background(), userID, kioskID, dto.OpenShiftRequest{
		KioskID:     kioskID.String(),
		InitialCash: dec(initial),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.CashSessionID)
	require.NoError(t, err)
	return id
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpenSession(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()

	resp, err := svc.Open(context.Background(), userID, kioskID, dto.OpenShiftRequest{
		KioskID:     kioskID.String(),
		InitialCash: dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.True(t, resp.InitialCash.Equal(dec("100")))
	assert.Nil(t, resp.ExpectedCash)
	assert.Nil(t, resp.ClosedAt)
}

func TestOpenRejectsNegativeInitialCash(t *testing.T) {
	svc := NewCashService(newFakeCashRepo(), &fakeLedgerRepo{}, nil)
	kioskID := uuid.New()

	_, err := svc.Open(context.Background(), uuid.New(), kioskID, dto.OpenShiftRequest{
		KioskID:     kioskID.String(),
		InitialCash: dec("-1"),
	})
	assert.True(t, IsKind(err, KindValidation))
}

func TestOpenRejectsForeignKioskBody(t *testing.T) {
	// The token decides the kiosk; a body naming another kiosk is a bad request.
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)

	_, err := svc.Open(context.Background(), uuid.New(), uuid.New(), dto.OpenShiftRequest{
		KioskID:     uuid.New().String(),
		InitialCash: dec("100"),
	})
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, repo.sessions)
}

func TestOpenRejectsSecondSession(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()

	openSession(t, svc, kioskID, userID, "100")

	_, err := svc.Open(context.Background(), userID, kioskID, dto.OpenShiftRequest{
		KioskID:     kioskID.String(),
		InitialCash: dec("50"),
	})
	assert.True(t, IsKind(err, KindConflict))

	// A second kiosk is unaffected.
	openSession(t, svc, uuid.New(), userID, "50")
}

func TestOpenMapsDuplicateKeyToConflict(t *testing.T) {
	// Concurrent opens that pass the pre-check hit the unique index instead.
	repo := newFakeCashRepo()
	repo.createSessionErr = gorm.ErrDuplicatedKey
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID := uuid.New()

	_, err := svc.Open(context.Background(), uuid.New(), kioskID, dto.OpenShiftRequest{
		KioskID:     kioskID.String(),
		InitialCash: dec("100"),
	})
	assert.True(t, IsKind(err, KindConflict))
}

// ── Movements ────────────────────────────────────────────────────────────────

func TestRecordMovement(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	resp, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementIn,
		Amount:        dec("20"),
		Reason:        "change fund top-up",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.MovementID)
	assert.Nil(t, resp.LinkedExpenseID)
	assert.Nil(t, resp.ExpenseWarning)
	require.Len(t, repo.movements, 1)
	assert.Equal(t, model.MovementIn, repo.movements[0].Type)
}

func TestRecordMovementRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
			CashSessionID: sessionID.String(),
			Type:          model.MovementOut,
			Amount:        dec(amount),
			Reason:        "ice for the fridge",
		})
		assert.True(t, IsKind(err, KindValidation), "amount %s", amount)
	}
}

func TestRecordMovementOnClosedSession(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	_, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("100"),
	})
	require.NoError(t, err)

	_, err = svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementIn,
		Amount:        dec("10"),
		Reason:        "late deposit",
	})
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestMovementLinkedExpense(t *testing.T) {
	repo := newFakeCashRepo()
	ledger := &fakeLedgerRepo{}
	svc := NewCashService(repo, ledger, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	resp, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementOut,
		Amount:        dec("30"),
		Reason:        "cleaning supplies",
		LinkAsExpense: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.LinkedExpenseID)
	assert.Nil(t, resp.ExpenseWarning)

	require.Len(t, ledger.expenses, 1)
	assert.Equal(t, *resp.LinkedExpenseID, ledger.expenses[0].ID.String())
	require.Len(t, repo.movements, 1)
	require.NotNil(t, repo.movements[0].LinkedExpenseID)
	assert.Equal(t, ledger.expenses[0].ID, *repo.movements[0].LinkedExpenseID)
}

func TestMovementCommitsWhenExpenseFails(t *testing.T) {
	repo := newFakeCashRepo()
	ledger := &fakeLedgerRepo{expenseErr: errors.New("connection reset")}
	svc := NewCashService(repo, ledger, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	resp, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementOut,
		Amount:        dec("30"),
		Reason:        "cleaning supplies",
		LinkAsExpense: true,
	})
	require.NoError(t, err, "the movement is the primary write and must commit")
	assert.Nil(t, resp.LinkedExpenseID)
	require.NotNil(t, resp.ExpenseWarning)

	// The movement still counts toward the balance.
	balance, err := svc.Balance(context.Background(), kioskID, sessionID)
	require.NoError(t, err)
	assert.True(t, balance.ManualOut.Equal(dec("30")))
}

// ── Balance ──────────────────────────────────────────────────────────────────

func TestBalanceFormula(t *testing.T) {
	repo := newFakeCashRepo()
	ledger := &fakeLedgerRepo{cashSales: dec("50"), supplierPayments: dec("5")}
	svc := NewCashService(repo, ledger, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	_, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementIn,
		Amount:        dec("20"),
		Reason:        "change fund top-up",
	})
	require.NoError(t, err)
	_, err = svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementOut,
		Amount:        dec("10"),
		Reason:        "ice for the fridge",
	})
	require.NoError(t, err)

	balance, err := svc.Balance(context.Background(), kioskID, sessionID)
	require.NoError(t, err)
	assert.True(t, balance.InitialCash.Equal(dec("100")))
	assert.True(t, balance.CashSales.Equal(dec("50")))
	assert.True(t, balance.ManualIn.Equal(dec("20")))
	assert.True(t, balance.ManualOut.Equal(dec("10")))
	assert.True(t, balance.SupplierPayments.Equal(dec("5")))
	// 100 + 50 + 20 - 10 - 5
	assert.True(t, balance.Theoretical.Equal(dec("155")), "got %s", balance.Theoretical)
}

func TestBalanceUnknownSession(t *testing.T) {
	svc := NewCashService(newFakeCashRepo(), &fakeLedgerRepo{}, nil)
	_, err := svc.Balance(context.Background(), uuid.New(), uuid.New())
	assert.True(t, IsKind(err, KindNotFound))
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestCloseComputesDifference(t *testing.T) {
	repo := newFakeCashRepo()
	ledger := &fakeLedgerRepo{cashSales: dec("50")}
	svc := NewCashService(repo, ledger, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	resp, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("160"),
	})
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(dec("150")))
	assert.True(t, resp.CountedCash.Equal(dec("160")))
	assert.True(t, resp.Difference.Equal(dec("10")), "counted above expected is a positive overage")
	assert.Equal(t, model.SessionClosed, resp.Status)
}

func TestCloseShortageIsNegative(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	resp, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("90"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Difference.Equal(dec("-10")))
}

func TestCloseIsFinal(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	_, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("100"),
	})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("999"),
	})
	assert.True(t, IsKind(err, KindInvalidState))

	// The stored snapshot is the first close's, untouched by the retry.
	report, err := svc.Report(context.Background(), kioskID, sessionID)
	require.NoError(t, err)
	require.NotNil(t, report.CountedCash)
	assert.True(t, report.CountedCash.Equal(dec("100")))
}

func TestCloseRejectsNegativeCountedCash(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	_, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("-1"),
	})
	assert.True(t, IsKind(err, KindValidation))
}

func TestCloseThenReopen(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	_, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("100"),
	})
	require.NoError(t, err)

	// Closing frees the kiosk for the next shift.
	next := openSession(t, svc, kioskID, userID, "50")
	assert.NotEqual(t, sessionID, next)
}

// ── Guards and projections ───────────────────────────────────────────────────

func TestRequireOpen(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	assert.NoError(t, svc.RequireOpen(context.Background(), kioskID, sessionID))

	_, err := svc.Close(context.Background(), userID, kioskID, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("100"),
	})
	require.NoError(t, err)

	err = svc.RequireOpen(context.Background(), kioskID, sessionID)
	assert.True(t, IsKind(err, KindInvalidState))

	err = svc.RequireOpen(context.Background(), kioskID, uuid.New())
	assert.True(t, IsKind(err, KindNotFound))
}

func TestForeignSessionReadsAsMissing(t *testing.T) {
	// A session belonging to another kiosk is reported as not found on every
	// session-targeted operation, so a stolen session ID leaks nothing and a
	// foreign close can never land.
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	ownerKiosk, otherKiosk, userID := uuid.New(), uuid.New(), uuid.New()
	sessionID := openSession(t, svc, ownerKiosk, userID, "100")

	_, err := svc.Balance(context.Background(), otherKiosk, sessionID)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.Report(context.Background(), otherKiosk, sessionID)
	assert.True(t, IsKind(err, KindNotFound))

	err = svc.RequireOpen(context.Background(), otherKiosk, sessionID)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.RecordMovement(context.Background(), userID, otherKiosk, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementOut,
		Amount:        dec("10"),
		Reason:        "ice for the fridge",
	})
	assert.True(t, IsKind(err, KindNotFound))
	assert.Empty(t, repo.movements)

	_, err = svc.Close(context.Background(), userID, otherKiosk, dto.CloseShiftRequest{
		CashSessionID: sessionID.String(),
		CountedCash:   dec("100"),
	})
	assert.True(t, IsKind(err, KindNotFound))

	// The owner is untouched and still open.
	require.NoError(t, svc.RequireOpen(context.Background(), ownerKiosk, sessionID))
}

func TestExpensesListing(t *testing.T) {
	repo := newFakeCashRepo()
	ledger := &fakeLedgerRepo{}
	svc := NewCashService(repo, ledger, nil)
	kioskID, userID := uuid.New(), uuid.New()
	sessionID := openSession(t, svc, kioskID, userID, "100")

	// The linked movement writes the expense under the session's kiosk.
	_, err := svc.RecordMovement(context.Background(), userID, kioskID, dto.MovementRequest{
		CashSessionID: sessionID.String(),
		Type:          model.MovementOut,
		Amount:        dec("30"),
		Reason:        "cleaning supplies",
		LinkAsExpense: true,
	})
	require.NoError(t, err)

	resp, err := svc.Expenses(context.Background(), kioskID, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].Amount.Equal(dec("30")))
	assert.Equal(t, "cleaning supplies", resp.Data[0].Description)
}

func TestActive(t *testing.T) {
	repo := newFakeCashRepo()
	svc := NewCashService(repo, &fakeLedgerRepo{}, nil)
	kioskID, userID := uuid.New(), uuid.New()

	_, err := svc.Active(context.Background(), kioskID)
	assert.True(t, IsKind(err, KindNotFound))

	sessionID := openSession(t, svc, kioskID, userID, "100")
	resp, err := svc.Active(context.Background(), kioskID)
	require.NoError(t, err)
	assert.Equal(t, sessionID.String(), resp.CashSessionID)
}
