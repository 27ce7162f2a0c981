package storefront

import (
	"sort"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/pricing"
)

// TrimFilter is sent upstream as query parameters; id sets are comma-joined.
type TrimFilter struct {
	BrandIDs        []string
	EngineTypeIDs   []string
	TransmissionIDs []string
	DriveTypeIDs    []string
	MinPrice        *pricing.Money
	MaxPrice        *pricing.Money
	AvailableOnly   *bool
}

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
)

// SearchTrims keeps trims whose brand, model or trim name contains q (case-insensitive).
func SearchTrims(trims []Trim, q string) []Trim {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Trim, 0, len(trims))
	for _, t := range trims {
		if q == "" ||
			strings.Contains(strings.ToLower(t.BrandName), q) ||
			strings.Contains(strings.ToLower(t.ModelName), q) ||
			strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// SortTrims sorts in place and is stable. Unknown keys fall back to newest.
func SortTrims(trims []Trim, key SortKey) {
	var less func(a, b Trim) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b Trim) bool { return a.BasePrice < b.BasePrice }
	case SortPriceDesc:
		less = func(a, b Trim) bool { return a.BasePrice > b.BasePrice }
	case SortNameAsc:
		less = func(a, b Trim) bool {
			return strings.ToLower(a.BrandName+" "+a.ModelName) < strings.ToLower(b.BrandName+" "+b.ModelName)
		}
	default:
		less = func(a, b Trim) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(trims, func(i, j int) bool { return less(trims[i], trims[j]) })
}
