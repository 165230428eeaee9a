package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenShiftRequest struct {
	KioskID     string          `json:"kiosk_id"     validate:"required,uuid"`
	InitialCash decimal.Decimal `json:"initial_cash" validate:"min=0"`
}

type MovementRequest struct {
	CashSessionID string          `json:"cash_session_id" validate:"required,uuid"`
	Type          string          `json:"type"            validate:"required,oneof=in out"`
	Amount        decimal.Decimal `json:"amount"          validate:"required,gt=0"`
	Reason        string          `json:"reason"          validate:"required,min=3"`
	// LinkAsExpense additionally records an out movement as a business
	// expense. The expense write is best-effort: the movement commits even
	// when it fails.
	LinkAsExpense bool    `json:"link_as_expense"`
	CategoryID    *string `json:"category_id" validate:"omitempty,uuid"`
}

type CloseShiftRequest struct {
	CashSessionID string          `json:"cash_session_id" validate:"required,uuid"`
	CountedCash   decimal.Decimal `json:"counted_cash"    validate:"min=0"`
	Notes         *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	MovementID      string  `json:"movement_id"`
	LinkedExpenseID *string `json:"linked_expense_id,omitempty"`
	// ExpenseWarning is set when the linked expense write failed. The
	// movement itself is committed — this is a partial success, not an error.
	ExpenseWarning *string `json:"expense_warning,omitempty"`
}

type BalanceResponse struct {
	CashSessionID    string          `json:"cash_session_id"`
	InitialCash      decimal.Decimal `json:"initial_cash"`
	CashSales        decimal.Decimal `json:"cash_sales"`
	ManualIn         decimal.Decimal `json:"manual_in"`
	ManualOut        decimal.Decimal `json:"manual_out"`
	SupplierPayments decimal.Decimal `json:"supplier_payments"`
	Theoretical      decimal.Decimal `json:"theoretical_balance"`
}

type CloseShiftResponse struct {
	CashSessionID string          `json:"cash_session_id"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
	CountedCash   decimal.Decimal `json:"counted_cash"`
	// Difference is counted minus expected: positive = overage, negative = shortage.
	Difference decimal.Decimal `json:"difference"`
	Status     string          `json:"status"`
}

type SessionResponse struct {
	CashSessionID string           `json:"cash_session_id"`
	KioskID       string           `json:"kiosk_id"`
	OpenedBy      string           `json:"opened_by"`
	InitialCash   decimal.Decimal  `json:"initial_cash"`
	Status        string           `json:"status"`
	ExpectedCash  *decimal.Decimal `json:"expected_cash,omitempty"`
	CountedCash   *decimal.Decimal `json:"counted_cash,omitempty"`
	Difference    *decimal.Decimal `json:"difference,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
