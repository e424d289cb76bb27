package score

import (
	"cmp"
	"math"
	"slices"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

// OpportunityThreshold is the price-to-appraisal ratio below which a listing
// is flagged as an opportunity.
const OpportunityThreshold = 0.85

// Opportunity returns price divided by commercial appraisal. ok is false when
// the listing has no usable appraisal.
func Opportunity(l *domain.Listing) (ratio float64, ok bool) {
	if l.CommercialValue == nil || *l.CommercialValue == 0 {
		return 0, false
	}
	return l.PriceCLP / *l.CommercialValue, true
}

// Discount returns one minus the opportunity ratio. ok is false when the
// listing has no usable appraisal.
func Discount(l *domain.Listing) (float64, bool) {
	ratio, ok := Opportunity(l)
	if !ok {
		return 0, false
	}
	return 1 - ratio, true
}

// OpportunityKey is the ascending sort key for opportunity ordering.
// Unappraised listings map to +Inf so they sort last.
func OpportunityKey(l *domain.Listing) float64 {
	ratio, ok := Opportunity(l)
	if !ok {
		return math.Inf(1)
	}
	return ratio
}

// DiscountKey is the descending sort key for discount ordering.
// Unappraised listings map to 0, between discounts and premiums.
func DiscountKey(l *domain.Listing) float64 {
	d, ok := Discount(l)
	if !ok {
		return 0
	}
	return d
}

// IsOpportunity reports whether the listing is priced well below appraisal.
func IsOpportunity(l *domain.Listing) bool {
	ratio, ok := Opportunity(l)
	return ok && ratio < OpportunityThreshold
}

// Indicators shows the ranking metrics of a single listing.
type Indicators struct {
	OpportunityRatio *float64 `json:"opportunity_ratio,omitempty"`
	Discount         *float64 `json:"discount,omitempty"`
	Opportunity      bool     `json:"opportunity"`
}

// Indicate computes the display indicators for a listing.
func Indicate(l *domain.Listing) Indicators {
	var ind Indicators
	if ratio, ok := Opportunity(l); ok {
		d := 1 - ratio
		ind.OpportunityRatio = &ratio
		ind.Discount = &d
		ind.Opportunity = ratio < OpportunityThreshold
	}
	return ind
}

// Sort returns a new slice ordered by mode. The input is not modified and
// equal keys keep their relative input order.
func Sort(listings []domain.Listing, mode domain.SortMode) []domain.Listing {
	sorted := slices.Clone(listings)
	slices.SortStableFunc(sorted, comparator(mode))
	return sorted
}

func comparator(mode domain.SortMode) func(a, b domain.Listing) int {
	switch mode {
	case domain.SortOpportunity:
		return func(a, b domain.Listing) int {
			return cmp.Compare(OpportunityKey(&a), OpportunityKey(&b))
		}
	case domain.SortDiscount:
		return func(a, b domain.Listing) int {
			return cmp.Compare(DiscountKey(&b), DiscountKey(&a))
		}
	default:
		return func(a, b domain.Listing) int {
			return cmp.Compare(b.InsertionRank, a.InsertionRank)
		}
	}
}
