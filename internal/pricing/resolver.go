package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the read-only catalog input to resolution.
type Item struct {
	ID         string
	CategoryID string
	BasePrice  decimal.Decimal
}

// List is a price list as the resolver sees it, decoupled from storage.
type List struct {
	ID            string
	Name          string
	AdjustmentPct decimal.Decimal
	Rounding      Rounding
	Active        bool
	Priority      int
	CreatedAt     time.Time
	Windows       []Window
	// Excluded category / product ID sets. An excluded item resolves as if
	// the list did not exist.
	ExcludedCategories map[string]struct{}
	ExcludedProducts   map[string]struct{}
}

// eligible reports whether the list applies to item at the given instant.
// A list with no windows is manual-only and never matches automatically.
func (l *List) eligible(item Item, at time.Time) bool {
	if !l.Active {
		return false
	}
	if _, ok := l.ExcludedProducts[item.ID]; ok {
		return false
	}
	if item.CategoryID != "" {
		if _, ok := l.ExcludedCategories[item.CategoryID]; ok {
			return false
		}
	}
	for _, w := range l.Windows {
		if w.Contains(at) {
			return true
		}
	}
	return false
}

// Resolution is the outcome of resolving one item at one instant.
// List is nil when no price list applied and Price is the base price.
type Resolution struct {
	List  *List
	Price decimal.Decimal
}

// Resolve picks the single effective price list for item at the given
// instant and returns the final price.
//
// Among eligible lists the highest Priority wins. Ties break to the most
// recently created list; lists created at the same instant break to the
// smallest ID, so the result is deterministic for any input order.
func Resolve(item Item, lists []List, at time.Time) Resolution {
	var winner *List
	for i := range lists {
		l := &lists[i]
		if !l.eligible(item, at) {
			continue
		}
		if winner == nil || beats(l, winner) {
			winner = l
		}
	}

	if winner == nil {
		return Resolution{Price: item.BasePrice}
	}

	pct := winner.AdjustmentPct.Div(decimal.NewFromInt(100))
	adjusted := item.BasePrice.Mul(decimal.NewFromInt(1).Add(pct))
	return Resolution{
		List:  winner,
		Price: Round(adjusted, winner.Rounding),
	}
}

func beats(a, b *List) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
