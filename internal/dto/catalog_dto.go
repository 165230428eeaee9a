package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	KioskID    string          `json:"kiosk_id"   validate:"required,uuid"`
	Barcode    string          `json:"barcode"    validate:"required"`
	Name       string          `json:"name"       validate:"required,min=2"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
	BasePrice  decimal.Decimal `json:"base_price" validate:"min=0"`
	Cost       decimal.Decimal `json:"cost"       validate:"min=0"`
}

type ProductResponse struct {
	ID         string          `json:"id"`
	KioskID    string          `json:"kiosk_id"`
	Barcode    string          `json:"barcode"`
	Name       string          `json:"name"`
	CategoryID *string         `json:"category_id,omitempty"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Cost       decimal.Decimal `json:"cost"`
	IsActive   bool            `json:"is_active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
