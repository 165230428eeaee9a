package service

import (
	"context"
	"errors"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService owns product bookkeeping: creation, listing, and the manual
// bulk price change with its append-only audit trail. Price lists never touch
// the catalog — they adjust prices at resolution time only. Every operation is
// scoped to the caller's kiosk; a foreign product reads as not found.
type CatalogService interface {
	CreateProduct(ctx context.Context, kioskID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, kioskID, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.ProductListResponse, error)
	BulkPriceChange(ctx context.Context, userID, kioskID uuid.UUID, req dto.BulkPriceChangeRequest) (*dto.BulkPriceChangeResponse, error)
	PriceHistory(ctx context.Context, kioskID, productID uuid.UUID, page, limit int) (*dto.PriceChangeListResponse, error)
}

type catalogService struct {
	products repository.ProductRepository
	changes  repository.PriceChangeRepository
	pricing  PricingService
}

func NewCatalogService(products repository.ProductRepository, changes repository.PriceChangeRepository, pricing PricingService) CatalogService {
	return &catalogService{products: products, changes: changes, pricing: pricing}
}

func (s *catalogService) CreateProduct(ctx context.Context, kioskID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	reqKiosk, err := uuid.Parse(req.KioskID)
	if err != nil {
		return nil, validationf("invalid kiosk_id")
	}
	if reqKiosk != kioskID {
		return nil, validationf("kiosk_id does not match the authenticated kiosk")
	}

	p := &model.Product{
		ID:        uuid.New(),
		KioskID:   kioskID,
		Barcode:   req.Barcode,
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Cost:      req.Cost,
		IsActive:  true,
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, validationf("invalid category_id")
		}
		p.CategoryID = &catID
	}

	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("a product with this barcode already exists")
		}
		return nil, storageErr("could not create product", err)
	}
	return productToResponse(p), nil
}

func (s *catalogService) GetProduct(ctx context.Context, kioskID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, kioskID, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// findProduct loads a product and enforces tenancy: another kiosk's product is
// indistinguishable from a missing one.
func (s *catalogService) findProduct(ctx context.Context, kioskID, id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("product not found")
		}
		return nil, storageErr("could not load product", err)
	}
	if p.KioskID != kioskID {
		return nil, notFoundf("product not found")
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, kioskID uuid.UUID, page, limit int) (*dto.ProductListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	products, total, err := s.products.ListByKiosk(ctx, kioskID, page, limit)
	if err != nil {
		return nil, storageErr("could not list products", err)
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── BulkPriceChange ──────────────────────────────────────────────────────────
// Applies a percentage to a product set inside one transaction, appending a
// PriceChange row per product. New prices round UP to the next whole unit —
// the till has no sub-unit cash anyway.

func (s *catalogService) BulkPriceChange(ctx context.Context, userID, kioskID uuid.UUID, req dto.BulkPriceChangeRequest) (*dto.BulkPriceChangeResponse, error) {
	reqKiosk, err := uuid.Parse(req.KioskID)
	if err != nil {
		return nil, validationf("invalid kiosk_id")
	}
	if reqKiosk != kioskID {
		return nil, validationf("kiosk_id does not match the authenticated kiosk")
	}
	if len(req.ProductIDs) == 0 && req.CategoryID == nil {
		return nil, validationf("either product_ids or category_id is required")
	}
	if req.Pct.IsZero() {
		return nil, validationf("pct must not be zero")
	}

	var targets []model.Product
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, validationf("invalid category_id")
		}
		targets, err = s.products.ListByCategory(ctx, kioskID, catID)
		if err != nil {
			return nil, storageErr("could not load category products", err)
		}
	} else {
		for _, raw := range req.ProductIDs {
			pid, err := uuid.Parse(raw)
			if err != nil {
				return nil, validationf("invalid product id %q", raw)
			}
			p, err := s.products.FindByID(ctx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, notFoundf("product %s not found", raw)
				}
				return nil, storageErr("could not load product", err)
			}
			if p.KioskID != kioskID {
				return nil, notFoundf("product %s not found", raw)
			}
			targets = append(targets, *p)
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = "bulk_update"
	}
	factor := decimal.NewFromInt(1).Add(req.Pct.Div(decimal.NewFromInt(100)))

	txErr := s.products.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range targets {
			p := &targets[i]
			newPrice := p.BasePrice.Mul(factor).Ceil()
			if err := s.products.UpdateBasePriceTx(tx, p.ID, newPrice); err != nil {
				return err
			}
			change := &model.PriceChange{
				ID:          uuid.New(),
				ProductID:   p.ID,
				UserID:      userID,
				PriceBefore: p.BasePrice,
				PriceAfter:  newPrice,
				AppliedPct:  req.Pct,
				Reason:      reason,
			}
			if err := s.changes.CreateTx(tx, change); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, storageErr("bulk price change failed", txErr)
	}

	s.pricing.InvalidateKiosk(ctx, kioskID)
	return &dto.BulkPriceChangeResponse{Updated: len(targets)}, nil
}

func (s *catalogService) PriceHistory(ctx context.Context, kioskID, productID uuid.UUID, page, limit int) (*dto.PriceChangeListResponse, error) {
	if _, err := s.findProduct(ctx, kioskID, productID); err != nil {
		return nil, err
	}
	rows, total, err := s.changes.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, storageErr("could not load price history", err)
	}
	data := make([]dto.PriceChangeResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, dto.PriceChangeResponse{
			ID:          r.ID.String(),
			ProductID:   r.ProductID.String(),
			PriceBefore: r.PriceBefore,
			PriceAfter:  r.PriceAfter,
			AppliedPct:  r.AppliedPct,
			Reason:      r.Reason,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.PriceChangeListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:        p.ID.String(),
		KioskID:   p.KioskID.String(),
		Barcode:   p.Barcode,
		Name:      p.Name,
		BasePrice: p.BasePrice,
		Cost:      p.Cost,
		IsActive:  p.IsActive,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}
