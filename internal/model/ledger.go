package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods recorded on ledger rows. Only cash rows count toward the
// till's theoretical balance.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale is a ledger row consumed read-only by the cash session balance:
// the service only ever sums cash sales over a time range. Recording the
// sales themselves belongs to the POS checkout flow, not this service.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	CreatedAt     time.Time       `gorm:"index"`
}

// Expense is a business expense. Out movements on a cash session may create
// one as a best-effort secondary write.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"index"`
}

// SupplierPayment is a ledger row for money paid out to suppliers. Like
// sales, it is consumed read-only as a sum over a time range.
type SupplierPayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"index"`
}
