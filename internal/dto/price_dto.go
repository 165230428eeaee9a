package dto

import "github.com/shopspring/decimal"

// ─── Price list administration ───────────────────────────────────────────────

// WindowDTO is one schedule entry. Times are "HH:MM"; the window covers
// [start, end) on the given weekday (0 = Sunday).
type WindowDTO struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Start   string `json:"start"   validate:"required,len=5"`
	End     string `json:"end"     validate:"required,len=5"`
}

type PriceListRequest struct {
	KioskID       string          `json:"kiosk_id"       validate:"required,uuid"`
	Name          string          `json:"name"           validate:"required,min=2"`
	AdjustmentPct decimal.Decimal `json:"adjustment_pct" validate:"required"`
	RoundingRule  string          `json:"rounding_rule"  validate:"omitempty,oneof=none nearest_10 nearest_50 nearest_100"`
	IsActive      *bool           `json:"is_active"`
	Priority      int             `json:"priority"`
	// Windows may be empty: the list then applies only when selected
	// manually, never during automatic resolution.
	Windows            []WindowDTO `json:"windows" validate:"dive"`
	ExcludedCategories []string    `json:"excluded_categories" validate:"dive,uuid"`
	ExcludedProducts   []string    `json:"excluded_products"   validate:"dive,uuid"`
}

type PriceListResponse struct {
	ID                 string          `json:"id"`
	KioskID            string          `json:"kiosk_id"`
	Name               string          `json:"name"`
	AdjustmentPct      decimal.Decimal `json:"adjustment_pct"`
	RoundingRule       string          `json:"rounding_rule"`
	IsActive           bool            `json:"is_active"`
	Priority           int             `json:"priority"`
	Windows            []WindowDTO     `json:"windows"`
	ExcludedCategories []string        `json:"excluded_categories"`
	ExcludedProducts   []string        `json:"excluded_products"`
	CreatedAt          string          `json:"created_at"`
}

// ─── Price resolution ────────────────────────────────────────────────────────

type PriceCheckResponse struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	FinalPrice decimal.Decimal `json:"final_price"`
	// AppliedList names the price list that produced FinalPrice; nil when
	// the base price applied unadjusted.
	AppliedList *string `json:"applied_list,omitempty"`
}

// ─── Bulk price change ───────────────────────────────────────────────────────

type BulkPriceChangeRequest struct {
	KioskID string `json:"kiosk_id" validate:"required,uuid"`
	// Either an explicit product set or a whole category.
	ProductIDs []string        `json:"product_ids" validate:"omitempty,dive,uuid"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
	Pct        decimal.Decimal `json:"pct"         validate:"required"`
	Reason     string          `json:"reason"      validate:"omitempty,oneof=bulk_update manual"`
}

type BulkPriceChangeResponse struct {
	Updated int `json:"updated"`
}

type PriceChangeResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	PriceBefore decimal.Decimal `json:"price_before"`
	PriceAfter  decimal.Decimal `json:"price_after"`
	AppliedPct  decimal.Decimal `json:"applied_pct"`
	Reason      string          `json:"reason"`
	CreatedAt   string          `json:"created_at"`
}

type PriceChangeListResponse struct {
	Data  []PriceChangeResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
