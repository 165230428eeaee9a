package repository

import (
	"context"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository exposes the append-only collections the cash session
// aggregates over. Sales and supplier payments are consumed read-only;
// expenses are written only as the secondary half of an out movement.
type LedgerRepository interface {
	SumCashSales(ctx context.Context, kioskID uuid.UUID, since time.Time) (decimal.Decimal, error)
	SumSupplierPayments(ctx context.Context, kioskID uuid.UUID, since time.Time) (decimal.Decimal, error)
	CreateExpense(ctx context.Context, e *model.Expense) error
	ListExpenses(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.Expense, int64, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) SumCashSales(ctx context.Context, kioskID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("kiosk_id = ? AND payment_method = ? AND created_at >= ?", kioskID, model.PaymentCash, since).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) SumSupplierPayments(ctx context.Context, kioskID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.SupplierPayment{}).
		Where("kiosk_id = ? AND created_at >= ?", kioskID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) CreateExpense(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ledgerRepo) ListExpenses(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.Expense, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("kiosk_id = ?", kioskID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Expense
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	return rows, total, err
}
