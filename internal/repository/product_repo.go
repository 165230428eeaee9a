package repository

import (
	"context"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, kioskID uuid.UUID, barcode string) (*model.Product, error)
	ListByKiosk(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.Product, int64, error)
	ListByCategory(ctx context.Context, kioskID, categoryID uuid.UUID) ([]model.Product, error)
	UpdateBasePriceTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error
	// DB exposes the handle so services can open a transaction spanning the
	// product update and its audit row.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, kioskID uuid.UUID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("kiosk_id = ? AND barcode = ?", kioskID, barcode).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListByKiosk(ctx context.Context, kioskID uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("kiosk_id = ? AND is_active = true", kioskID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := q.Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListByCategory(ctx context.Context, kioskID, categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("kiosk_id = ? AND category_id = ? AND is_active = true", kioskID, categoryID).
		Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateBasePriceTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("base_price", price).Error
}
