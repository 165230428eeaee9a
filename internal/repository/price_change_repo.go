package repository

import (
	"context"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceChangeRepository interface {
	CreateTx(tx *gorm.DB, pc *model.PriceChange) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceChange, int64, error)
}

type priceChangeRepo struct{ db *gorm.DB }

func NewPriceChangeRepository(db *gorm.DB) PriceChangeRepository {
	return &priceChangeRepo{db: db}
}

func (r *priceChangeRepo) CreateTx(tx *gorm.DB, pc *model.PriceChange) error {
	return tx.Create(pc).Error
}

// ListByProduct returns the audit rows for one product, newest first.
// The table is append-only, so this is also reverse insert order.
func (r *priceChangeRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceChange, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.PriceChange{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PriceChange
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	return rows, total, err
}
