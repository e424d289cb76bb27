package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/terrenos/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func listing(rank int, price float64, commercial *float64) domain.Listing {
	return domain.Listing{
		ID:              string(rune('a' + rank)),
		InsertionRank:   rank,
		PriceCLP:        price,
		SurfaceM2:       1000,
		Origin:          domain.OriginPortal,
		CommercialValue: commercial,
	}
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i := range listings {
		out[i] = listings[i].ID
	}
	return out
}

func TestOpportunity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		commercial *float64
		wantRatio  float64
		wantOK     bool
		wantKey    float64
		wantDisc   float64
	}{
		{name: "half price", commercial: ptr(200.0), wantRatio: 0.5, wantOK: true, wantKey: 0.5, wantDisc: 0.5},
		{name: "premium", commercial: ptr(50.0), wantRatio: 2, wantOK: true, wantKey: 2, wantDisc: -1},
		{name: "absent appraisal", commercial: nil, wantOK: false, wantKey: math.Inf(1), wantDisc: 0},
		{name: "zero appraisal", commercial: ptr(0.0), wantOK: false, wantKey: math.Inf(1), wantDisc: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := listing(0, 100, tt.commercial)
			ratio, ok := Opportunity(&l)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantRatio, ratio, 1e-9)
			}
			assert.Equal(t, tt.wantKey, OpportunityKey(&l))
			assert.InDelta(t, tt.wantDisc, DiscountKey(&l), 1e-9)
		})
	}
}

func TestIsOpportunity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		price      float64
		commercial *float64
		want       bool
	}{
		{name: "well below threshold", price: 100, commercial: ptr(200.0), want: true},
		{name: "just below threshold", price: 84, commercial: ptr(100.0), want: true},
		{name: "exactly at threshold is not flagged", price: 85, commercial: ptr(100.0), want: false},
		{name: "above threshold", price: 100, commercial: ptr(110.0), want: false},
		{name: "no appraisal", price: 100, commercial: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := listing(0, tt.price, tt.commercial)
			assert.Equal(t, tt.want, IsOpportunity(&l))
		})
	}
}

func TestIndicate(t *testing.T) {
	t.Parallel()

	l := listing(0, 80, ptr(100.0))
	ind := Indicate(&l)
	require.NotNil(t, ind.OpportunityRatio)
	require.NotNil(t, ind.Discount)
	assert.InDelta(t, 0.8, *ind.OpportunityRatio, 1e-9)
	assert.InDelta(t, 0.2, *ind.Discount, 1e-9)
	assert.True(t, ind.Opportunity)

	none := listing(1, 80, nil)
	ind = Indicate(&none)
	assert.Nil(t, ind.OpportunityRatio)
	assert.Nil(t, ind.Discount)
	assert.False(t, ind.Opportunity)
}

func TestSort_Default(t *testing.T) {
	t.Parallel()

	in := []domain.Listing{listing(0, 100, nil), listing(1, 100, nil), listing(2, 50, nil)}

	first := Sort(in, domain.SortDefault)
	second := Sort(in, domain.SortDefault)

	assert.Equal(t, []string{"c", "b", "a"}, ids(first))
	assert.Equal(t, first, second, "repeated sorts must be identical")
	assert.Equal(t, []string{"a", "b", "c"}, ids(in), "input must not be reordered")
}

func TestSort_UnknownModeFallsBackToDefault(t *testing.T) {
	t.Parallel()

	in := []domain.Listing{listing(0, 100, nil), listing(1, 100, nil)}
	assert.Equal(t, []string{"b", "a"}, ids(Sort(in, "")))
}

func TestSort_Opportunity(t *testing.T) {
	t.Parallel()

	in := []domain.Listing{
		listing(0, 1, nil),         // cheapest, but unappraised
		listing(1, 90, ptr(100.0)), // 0.9
		listing(2, 50, ptr(100.0)), // 0.5
		listing(3, 2, ptr(0.0)),    // zero appraisal, unappraised
		listing(4, 120, ptr(100.0)),
	}

	got := Sort(in, domain.SortOpportunity)
	assert.Equal(t, []string{"c", "b", "e", "a", "d"}, ids(got))
}

func TestSort_Discount(t *testing.T) {
	t.Parallel()

	in := []domain.Listing{
		listing(0, 150, ptr(100.0)), // -0.5 premium
		listing(1, 100, nil),        // no signal, 0
		listing(2, 70, ptr(100.0)),  // 0.3
		listing(3, 90, ptr(100.0)),  // 0.1
	}

	got := Sort(in, domain.SortDiscount)
	assert.Equal(t, []string{"c", "d", "b", "a"}, ids(got))
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	t.Parallel()

	// Filtered sequences arrive in insertion order; equal keys keep it.
	in := []domain.Listing{
		listing(0, 50, ptr(100.0)),
		listing(1, 1, nil),
		listing(2, 50, ptr(100.0)),
		listing(3, 2, nil),
	}

	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(Sort(in, domain.SortOpportunity)))
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(Sort(in, domain.SortDiscount)))
}

func TestSort_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Sort(nil, domain.SortOpportunity))
}
