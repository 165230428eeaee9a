package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash session states. A session is created open and transitions to closed
// exactly once; it is never deleted and never reopened.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession represents one open-to-close period of a kiosk's till.
//
// ExpectedCash, CountedCash, Difference, ClosedBy and ClosedAt are all nil
// while the session is open and all set once it is closed. The snapshot taken
// at close is immutable: movements recorded afterwards never change it.
type CashSession struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpenedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	InitialCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(10);not null;default:'open'"`
	// ExpectedCash is snapshotted at close from the live balance.
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CountedCash  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Difference = CountedCash - ExpectedCash. Positive means overage.
	Difference *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes      *string
	ClosedBy   *uuid.UUID `gorm:"type:uuid"`
	OpenedAt   time.Time
	ClosedAt   *time.Time

	Movements []CashMovement `gorm:"foreignKey:CashSessionID"`
}

// Manual movement directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// CashMovement is an immutable entry in a session's cash ledger.
// Amount is always positive; Type carries the direction. Movements are never
// updated or deleted once created.
type CashMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	Type          string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason        string          `gorm:"not null"`
	// LinkedExpenseID is set when an out movement was also recorded as a
	// business expense. The expense write is best-effort, so this may be nil
	// even for movements that requested the link.
	LinkedExpenseID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
}
