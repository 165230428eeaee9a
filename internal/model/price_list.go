package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rounding rules applied after a price list's percentage adjustment.
const (
	RoundingNone       = "none"
	RoundingNearest10  = "nearest_10"
	RoundingNearest50  = "nearest_50"
	RoundingNearest100 = "nearest_100"
)

// PriceList is a schedulable rule that adjusts base prices by a percentage.
// A kiosk may have any number of lists; at most one is effective for a given
// product at a given instant (highest priority among the eligible ones).
//
// A list with no windows is "manual only": it never matches during automatic
// resolution.
type PriceList struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	KioskID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null"`
	// AdjustmentPct is signed: +20 marks up, -10 discounts.
	AdjustmentPct decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	RoundingRule  string          `gorm:"type:varchar(15);not null;default:'none'"`
	IsActive      bool            `gorm:"not null;default:true"`
	Priority      int             `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Windows    []PriceListWindow    `gorm:"foreignKey:PriceListID"`
	Exclusions []PriceListExclusion `gorm:"foreignKey:PriceListID"`
}

// PriceListWindow is one day-of-week activation window.
// Start and End are minutes from midnight; the window covers [Start, End).
// Windows with End <= Start are invalid and never match (overnight windows
// are not supported).
type PriceListWindow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PriceListID uuid.UUID `gorm:"type:uuid;not null;index"`
	Weekday     int       `gorm:"not null"` // 0 = Sunday .. 6 = Saturday
	StartMin    int       `gorm:"not null"`
	EndMin      int       `gorm:"not null"`
}

// PriceListExclusion removes a category or a single product from a list's
// reach. Exactly one of CategoryID / ProductID is set per row.
type PriceListExclusion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PriceListID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid"`
	ProductID   *uuid.UUID `gorm:"type:uuid"`
}
