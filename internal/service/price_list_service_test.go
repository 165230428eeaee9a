package service

import (
	"context"
	"testing"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPriceListService(lists *fakePriceListRepo) PriceListService {
	pricing := NewPricingService(newFakeProductRepo(), lists, nil, time.Minute)
	return NewPriceListService(lists, pricing)
}

func TestPriceListCreate(t *testing.T) {
	lists := newFakePriceListRepo()
	svc := newPriceListService(lists)
	kioskID := uuid.New()

	resp, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "happy hour",
		AdjustmentPct: dec("-10"),
		RoundingRule:  "nearest_10",
		Priority:      2,
		Windows: []dto.WindowDTO{
			{Weekday: 1, Start: "18:00", End: "21:00"},
			{Weekday: 5, Start: "18:00", End: "23:30"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive, "lists default to active")
	assert.Equal(t, 2, resp.Priority)
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, "18:00", resp.Windows[0].Start)
	assert.Equal(t, "23:30", resp.Windows[1].End)
	assert.Len(t, lists.lists, 1)
}

func TestPriceListCreateRejectsForeignKioskBody(t *testing.T) {
	lists := newFakePriceListRepo()
	svc := newPriceListService(lists)

	_, err := svc.Create(context.Background(), uuid.New(), dto.PriceListRequest{
		KioskID:       uuid.New().String(),
		Name:          "not yours",
		AdjustmentPct: dec("-10"),
	})
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, lists.lists)
}

func TestPriceListCreateDefaultsRoundingToNone(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()

	resp, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "weekend markup",
		AdjustmentPct: dec("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "none", resp.RoundingRule)
	assert.Empty(t, resp.Windows, "a list without windows is manual-only")
}

func TestPriceListRejectsOvernightWindow(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()

	_, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "night owl",
		AdjustmentPct: dec("-5"),
		Windows: []dto.WindowDTO{
			{Weekday: 6, Start: "22:00", End: "02:00"},
		},
	})
	assert.True(t, IsKind(err, KindValidation))
}

func TestPriceListRejectsZeroLengthWindow(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()

	_, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "noop",
		AdjustmentPct: dec("-5"),
		Windows: []dto.WindowDTO{
			{Weekday: 1, Start: "18:00", End: "18:00"},
		},
	})
	assert.True(t, IsKind(err, KindValidation))
}

func TestPriceListRejectsBadClock(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()

	for _, clock := range []string{"25:00", "8:0", "18h00"} {
		_, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
			KioskID:       kioskID.String(),
			Name:          "bad clock",
			AdjustmentPct: dec("-5"),
			Windows: []dto.WindowDTO{
				{Weekday: 1, Start: clock, End: "21:00"},
			},
		})
		assert.True(t, IsKind(err, KindValidation), "clock %q", clock)
	}
}

func TestPriceListUpdateReplacesWindows(t *testing.T) {
	lists := newFakePriceListRepo()
	svc := newPriceListService(lists)
	kioskID := uuid.New()

	created, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "happy hour",
		AdjustmentPct: dec("-10"),
		Windows: []dto.WindowDTO{
			{Weekday: 1, Start: "18:00", End: "21:00"},
		},
	})
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), kioskID, id, dto.PriceListRequest{
		KioskID:       kioskID.String(),
		Name:          "extended happy hour",
		AdjustmentPct: dec("-15"),
		Windows: []dto.WindowDTO{
			{Weekday: 1, Start: "17:00", End: "22:00"},
			{Weekday: 2, Start: "17:00", End: "22:00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "extended happy hour", updated.Name)
	require.Len(t, updated.Windows, 2)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "update keeps the original creation time")
}

func TestPriceListGetUnknown(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()

	_, err := svc.Get(context.Background(), kioskID, uuid.New())
	assert.True(t, IsKind(err, KindNotFound))

	err = svc.Delete(context.Background(), kioskID, uuid.New())
	assert.True(t, IsKind(err, KindNotFound))
}

func TestPriceListForeignKioskReadsAsMissing(t *testing.T) {
	// Another kiosk's list cannot be read, rewritten or deleted, and the
	// attempts are indistinguishable from a missing ID.
	lists := newFakePriceListRepo()
	svc := newPriceListService(lists)
	ownerKiosk, otherKiosk := uuid.New(), uuid.New()

	created, err := svc.Create(context.Background(), ownerKiosk, dto.PriceListRequest{
		KioskID:       ownerKiosk.String(),
		Name:          "happy hour",
		AdjustmentPct: dec("-10"),
	})
	require.NoError(t, err)
	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), otherKiosk, id)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.Update(context.Background(), otherKiosk, id, dto.PriceListRequest{
		KioskID:       otherKiosk.String(),
		Name:          "hijacked",
		AdjustmentPct: dec("-99"),
	})
	assert.True(t, IsKind(err, KindNotFound))

	err = svc.Delete(context.Background(), otherKiosk, id)
	assert.True(t, IsKind(err, KindNotFound))

	// The owner still sees the original, untouched.
	got, err := svc.Get(context.Background(), ownerKiosk, id)
	require.NoError(t, err)
	assert.Equal(t, "happy hour", got.Name)
}

func TestPriceListExclusionsRoundTrip(t *testing.T) {
	svc := newPriceListService(newFakePriceListRepo())
	kioskID := uuid.New()
	catID, prodID := uuid.New(), uuid.New()

	resp, err := svc.Create(context.Background(), kioskID, dto.PriceListRequest{
		KioskID:            kioskID.String(),
		Name:               "everything but tobacco",
		AdjustmentPct:      dec("-10"),
		ExcludedCategories: []string{catID.String()},
		ExcludedProducts:   []string{prodID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{catID.String()}, resp.ExcludedCategories)
	assert.Equal(t, []string{prodID.String()}, resp.ExcludedProducts)
}
