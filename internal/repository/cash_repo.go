package repository

import (
	"context"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	FindOpenByKiosk(ctx context.Context, kioskID uuid.UUID) (*model.CashSession, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	// CloseSession persists the close snapshot with a guard on the current
	// status; it returns false when the session was not open, without
	// touching the row.
	CloseSession(ctx context.Context, s *model.CashSession) (bool, error)
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	SumMovements(ctx context.Context, sessionID uuid.UUID, movementType string) (decimal.Decimal, error)
	ListSessions(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.CashSession, int64, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

// CreateSession inserts the row. The partial unique index on
// (kiosk_id) WHERE status = 'open' makes a concurrent double-open surface as
// gorm.ErrDuplicatedKey here.
func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenByKiosk(ctx context.Context, kioskID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("kiosk_id = ? AND status = ?", kioskID, model.SessionOpen).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) CloseSession(ctx context.Context, s *model.CashSession) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CashSession{}).
		Where("id = ? AND status = ?", s.ID, model.SessionOpen).
		Updates(map[string]any{
			"status":        model.SessionClosed,
			"expected_cash": s.ExpectedCash,
			"counted_cash":  s.CountedCash,
			"difference":    s.Difference,
			"notes":         s.Notes,
			"closed_by":     s.ClosedBy,
			"closed_at":     s.ClosedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *cashRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cashRepo) SumMovements(ctx context.Context, sessionID uuid.UUID, movementType string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.CashMovement{}).
		Where("cash_session_id = ? AND type = ?", sessionID, movementType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *cashRepo) ListSessions(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.CashSession, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CashSession{}).Where("kiosk_id = ?", kioskID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.CashSession
	err := q.Order("opened_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&sessions).Error
	return sessions, total, err
}
