package repository

import (
	"context"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceListRepository interface {
	Create(ctx context.Context, pl *model.PriceList) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PriceList, error)
	ListByKiosk(ctx context.Context, kioskID uuid.UUID, onlyActive bool) ([]model.PriceList, error)
	// Update replaces the list's fields together with its windows and
	// exclusions in one transaction.
	Update(ctx context.Context, pl *model.PriceList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type priceListRepo struct{ db *gorm.DB }

func NewPriceListRepository(db *gorm.DB) PriceListRepository { return &priceListRepo{db: db} }

func (r *priceListRepo) Create(ctx context.Context, pl *model.PriceList) error {
	return r.db.WithContext(ctx).Create(pl).Error
}

func (r *priceListRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PriceList, error) {
	var pl model.PriceList
	err := r.db.WithContext(ctx).
		Preload("Windows").
		Preload("Exclusions").
		First(&pl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (r *priceListRepo) ListByKiosk(ctx context.Context, kioskID uuid.UUID, onlyActive bool) ([]model.PriceList, error) {
	q := r.db.WithContext(ctx).
		Preload("Windows").
		Preload("Exclusions").
		Where("kiosk_id = ?", kioskID)
	if onlyActive {
		q = q.Where("is_active = true")
	}

	var lists []model.PriceList
	err := q.Order("priority DESC, created_at DESC").Find(&lists).Error
	return lists, err
}

func (r *priceListRepo) Update(ctx context.Context, pl *model.PriceList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_list_id = ?", pl.ID).Delete(&model.PriceListWindow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_list_id = ?", pl.ID).Delete(&model.PriceListExclusion{}).Error; err != nil {
			return err
		}
		return tx.Save(pl).Error
	})
}

func (r *priceListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_list_id = ?", id).Delete(&model.PriceListWindow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_list_id = ?", id).Delete(&model.PriceListExclusion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PriceList{}, "id = ?", id).Error
	})
}
