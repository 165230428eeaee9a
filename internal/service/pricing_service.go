package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/pricing"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PricingService resolves effective prices for catalog items. The resolution
// itself lives in the pure pricing package; this layer loads the inputs,
// injects the instant, and caches current-time lookups in Redis.
type PricingService interface {
	// CheckPrice resolves the price of a product looked up by barcode.
	// A zero `at` means "now" and is served through the cache; an explicit
	// instant always bypasses it.
	CheckPrice(ctx context.Context, kioskID uuid.UUID, barcode string, at time.Time) (*dto.PriceCheckResponse, error)
	// InvalidateKiosk drops all cached price checks for a kiosk. Called by
	// every price-list or catalog write.
	InvalidateKiosk(ctx context.Context, kioskID uuid.UUID)
}

type pricingService struct {
	products repository.ProductRepository
	lists    repository.PriceListRepository
	rdb      *redis.Client // nil disables caching
	cacheTTL time.Duration
}

func NewPricingService(products repository.ProductRepository, lists repository.PriceListRepository, rdb *redis.Client, cacheTTL time.Duration) PricingService {
	return &pricingService{products: products, lists: lists, rdb: rdb, cacheTTL: cacheTTL}
}

func priceCacheKey(kioskID uuid.UUID, barcode string) string {
	return "price:" + kioskID.String() + ":" + barcode
}

func (s *pricingService) CheckPrice(ctx context.Context, kioskID uuid.UUID, barcode string, at time.Time) (*dto.PriceCheckResponse, error) {
	cacheable := at.IsZero()
	if at.IsZero() {
		at = time.Now()
	}

	if cacheable && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey(kioskID, barcode)).Bytes(); err == nil {
			var resp dto.PriceCheckResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.products.FindByBarcode(ctx, kioskID, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("product not found")
		}
		return nil, storageErr("could not load product", err)
	}

	lists, err := s.lists.ListByKiosk(ctx, kioskID, true)
	if err != nil {
		return nil, storageErr("could not load price lists", err)
	}

	resolution := pricing.Resolve(toEngineItem(product), toEngineLists(lists), at)

	resp := &dto.PriceCheckResponse{
		ProductID:  product.ID.String(),
		Name:       product.Name,
		BasePrice:  product.BasePrice,
		FinalPrice: resolution.Price,
	}
	if resolution.List != nil {
		resp.AppliedList = &resolution.List.Name
	}

	// Populate cache — best effort, ignore errors
	if cacheable && s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), priceCacheKey(kioskID, barcode), b, s.cacheTTL).Err()
		}
	}

	return resp, nil
}

// InvalidateKiosk scans and deletes the kiosk's cached price checks.
// Best-effort: a failed invalidation only extends staleness up to the TTL.
func (s *pricingService) InvalidateKiosk(ctx context.Context, kioskID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, "price:"+kioskID.String()+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Str("key", iter.Val()).Err(err).Msg("price cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Str("kiosk_id", kioskID.String()).Err(err).Msg("price cache scan failed")
	}
}

// ── Model → engine mapping ───────────────────────────────────────────────────

func toEngineItem(p *model.Product) pricing.Item {
	item := pricing.Item{
		ID:        p.ID.String(),
		BasePrice: p.BasePrice,
	}
	if p.CategoryID != nil {
		item.CategoryID = p.CategoryID.String()
	}
	return item
}

func toEngineLists(lists []model.PriceList) []pricing.List {
	out := make([]pricing.List, 0, len(lists))
	for i := range lists {
		out = append(out, toEngineList(&lists[i]))
	}
	return out
}

func toEngineList(pl *model.PriceList) pricing.List {
	l := pricing.List{
		ID:                 pl.ID.String(),
		Name:               pl.Name,
		AdjustmentPct:      pl.AdjustmentPct,
		Rounding:           pricing.Rounding(pl.RoundingRule),
		Active:             pl.IsActive,
		Priority:           pl.Priority,
		CreatedAt:          pl.CreatedAt,
		ExcludedCategories: make(map[string]struct{}),
		ExcludedProducts:   make(map[string]struct{}),
	}
	for _, w := range pl.Windows {
		l.Windows = append(l.Windows, pricing.Window{
			Weekday: time.Weekday(w.Weekday),
			Start:   w.StartMin,
			End:     w.EndMin,
		})
	}
	for _, e := range pl.Exclusions {
		if e.CategoryID != nil {
			l.ExcludedCategories[e.CategoryID.String()] = struct{}{}
		}
		if e.ProductID != nil {
			l.ExcludedProducts[e.ProductID.String()] = struct{}{}
		}
	}
	return l
}
