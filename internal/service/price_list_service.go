package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceListService is the admin-facing CRUD surface for price lists. All
// operations are scoped to the caller's kiosk: lists of another kiosk are
// reported as not found and a list can never be reassigned across kiosks.
type PriceListService interface {
	Create(ctx context.Context, kioskID uuid.UUID, req dto.PriceListRequest) (*dto.PriceListResponse, error)
	Get(ctx context.Context, kioskID, id uuid.UUID) (*dto.PriceListResponse, error)
	List(ctx context.Context, kioskID uuid.UUID, includeInactive bool) ([]dto.PriceListResponse, error)
	Update(ctx context.Context, kioskID, id uuid.UUID, req dto.PriceListRequest) (*dto.PriceListResponse, error)
	Delete(ctx context.Context, kioskID, id uuid.UUID) error
}

type priceListService struct {
	repo    repository.PriceListRepository
	pricing PricingService
}

func NewPriceListService(repo repository.PriceListRepository, pricing PricingService) PriceListService {
	return &priceListService{repo: repo, pricing: pricing}
}

func (s *priceListService) Create(ctx context.Context, kioskID uuid.UUID, req dto.PriceListRequest) (*dto.PriceListResponse, error) {
	pl, err := priceListFromRequest(uuid.Nil, kioskID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pl); err != nil {
		return nil, storageErr("could not create price list", err)
	}
	s.pricing.InvalidateKiosk(ctx, pl.KioskID)
	return priceListToResponse(pl), nil
}

func (s *priceListService) Get(ctx context.Context, kioskID, id uuid.UUID) (*dto.PriceListResponse, error) {
	pl, err := s.findList(ctx, kioskID, id)
	if err != nil {
		return nil, err
	}
	return priceListToResponse(pl), nil
}

func (s *priceListService) List(ctx context.Context, kioskID uuid.UUID, includeInactive bool) ([]dto.PriceListResponse, error) {
	lists, err := s.repo.ListByKiosk(ctx, kioskID, !includeInactive)
	if err != nil {
		return nil, storageErr("could not list price lists", err)
	}
	out := make([]dto.PriceListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, *priceListToResponse(&lists[i]))
	}
	return out, nil
}

func (s *priceListService) Update(ctx context.Context, kioskID, id uuid.UUID, req dto.PriceListRequest) (*dto.PriceListResponse, error) {
	existing, err := s.findList(ctx, kioskID, id)
	if err != nil {
		return nil, err
	}

	pl, err := priceListFromRequest(id, kioskID, req)
	if err != nil {
		return nil, err
	}
	pl.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, pl); err != nil {
		return nil, storageErr("could not update price list", err)
	}
	s.pricing.InvalidateKiosk(ctx, pl.KioskID)
	return priceListToResponse(pl), nil
}

func (s *priceListService) Delete(ctx context.Context, kioskID, id uuid.UUID) error {
	pl, err := s.findList(ctx, kioskID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr("could not delete price list", err)
	}
	s.pricing.InvalidateKiosk(ctx, pl.KioskID)
	return nil
}

// findList loads a list and enforces tenancy: another kiosk's list is
// indistinguishable from a missing one.
func (s *priceListService) findList(ctx context.Context, kioskID, id uuid.UUID) (*model.PriceList, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("price list not found")
		}
		return nil, storageErr("could not load price list", err)
	}
	if pl.KioskID != kioskID {
		return nil, notFoundf("price list not found")
	}
	return pl, nil
}

// ── Mapping / validation ─────────────────────────────────────────────────────

// parseClock parses "HH:MM" into minutes from midnight.
func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func priceListFromRequest(id, kioskID uuid.UUID, req dto.PriceListRequest) (*model.PriceList, error) {
	reqKiosk, err := uuid.Parse(req.KioskID)
	if err != nil {
		return nil, validationf("invalid kiosk_id")
	}
	if reqKiosk != kioskID {
		return nil, validationf("kiosk_id does not match the authenticated kiosk")
	}

	rounding := req.RoundingRule
	if rounding == "" {
		rounding = model.RoundingNone
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	pl := &model.PriceList{
		ID:            id,
		KioskID:       kioskID,
		Name:          req.Name,
		AdjustmentPct: req.AdjustmentPct,
		RoundingRule:  rounding,
		IsActive:      active,
		Priority:      req.Priority,
	}

	for _, w := range req.Windows {
		start, err := parseClock(w.Start)
		if err != nil {
			return nil, validationf("invalid window start %q", w.Start)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return nil, validationf("invalid window end %q", w.End)
		}
		// Overnight windows are not supported: reject them at write time
		// instead of silently never matching.
		if end <= start {
			return nil, validationf("window end %q must be after start %q (overnight windows are not supported)", w.End, w.Start)
		}
		pl.Windows = append(pl.Windows, model.PriceListWindow{
			ID:          uuid.New(),
			PriceListID: id,
			Weekday:     w.Weekday,
			StartMin:    start,
			EndMin:      end,
		})
	}

	for _, c := range req.ExcludedCategories {
		catID, err := uuid.Parse(c)
		if err != nil {
			return nil, validationf("invalid excluded category id %q", c)
		}
		pl.Exclusions = append(pl.Exclusions, model.PriceListExclusion{
			ID:          uuid.New(),
			PriceListID: id,
			CategoryID:  &catID,
		})
	}
	for _, p := range req.ExcludedProducts {
		prodID, err := uuid.Parse(p)
		if err != nil {
			return nil, validationf("invalid excluded product id %q", p)
		}
		pl.Exclusions = append(pl.Exclusions, model.PriceListExclusion{
			ID:          uuid.New(),
			PriceListID: id,
			ProductID:   &prodID,
		})
	}

	return pl, nil
}

func priceListToResponse(pl *model.PriceList) *dto.PriceListResponse {
	resp := &dto.PriceListResponse{
		ID:                 pl.ID.String(),
		KioskID:            pl.KioskID.String(),
		Name:               pl.Name,
		AdjustmentPct:      pl.AdjustmentPct,
		RoundingRule:       pl.RoundingRule,
		IsActive:           pl.IsActive,
		Priority:           pl.Priority,
		Windows:            []dto.WindowDTO{},
		ExcludedCategories: []string{},
		ExcludedProducts:   []string{},
		CreatedAt:          pl.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, w := range pl.Windows {
		resp.Windows = append(resp.Windows, dto.WindowDTO{
			Weekday: w.Weekday,
			Start:   fmt.Sprintf("%02d:%02d", w.StartMin/60, w.StartMin%60),
			End:     fmt.Sprintf("%02d:%02d", w.EndMin/60, w.EndMin%60),
		})
	}
	for _, e := range pl.Exclusions {
		if e.CategoryID != nil {
			resp.ExcludedCategories = append(resp.ExcludedCategories, e.CategoryID.String())
		}
		if e.ProductID != nil {
			resp.ExcludedProducts = append(resp.ExcludedProducts, e.ProductID.String())
		}
	}
	return resp
}
