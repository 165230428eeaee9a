package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The pricing engine only reads BasePrice,
// CategoryID and ID; everything else is back-office bookkeeping.
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Barcode    string          `gorm:"uniqueIndex;not null"`
	Name       string          `gorm:"index;not null"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive   bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// Category classifies products and is the unit of price-list exclusion.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceChange records one manual price adjustment on a product. Rows are
// append-only: never updated, never deleted. This audit trail is separate
// from price lists, which adjust prices at resolution time without touching
// the catalog.
type PriceChange struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	PriceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AppliedPct  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Reason      string          `gorm:"not null;default:'bulk_update'"` // bulk_update | manual
	CreatedAt   time.Time
}
