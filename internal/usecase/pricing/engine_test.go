package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestComputeSubtotal(t *testing.T) {
	lines := []domcart.Line{
		{ProductID: 1, UnitPrice: d("499.50"), Quantity: 2},
		{ProductID: 2, UnitPrice: d("250"), Quantity: 1},
		{ProductID: 3, UnitPrice: d("0"), Quantity: 3},
	}

	subtotal, err := ComputeSubtotal(lines)
	require.NoError(t, err)
	require.True(t, subtotal.Equal(d("1249")), "got %s", subtotal)
}

func TestComputeSubtotal_EmptyLines(t *testing.T) {
	subtotal, err := ComputeSubtotal(nil)
	require.NoError(t, err)
	require.True(t, subtotal.IsZero())
}

func TestComputeSubtotal_InvariantUnderReordering(t *testing.T) {
	a := []domcart.Line{
		{ProductID: 1, UnitPrice: d("199.99"), Quantity: 3},
		{ProductID: 2, UnitPrice: d("49"), Quantity: 7},
		{ProductID: 3, UnitPrice: d("1250.25"), Quantity: 1},
	}
	b := []domcart.Line{a[2], a[0], a[1]}

	sa, err := ComputeSubtotal(a)
	require.NoError(t, err)
	sb, err := ComputeSubtotal(b)
	require.NoError(t, err)
	require.True(t, sa.Equal(sb))
}

func TestComputeSubtotal_RejectsBadLines(t *testing.T) {
	tests := []struct {
		name    string
		line    domcart.Line
		wantErr error
	}{
		{
			name:    "zero quantity",
			line:    domcart.Line{ProductID: 1, UnitPrice: d("100"), Quantity: 0},
			wantErr: ErrNonPositiveQuantity,
		},
		{
			name:    "negative quantity",
			line:    domcart.Line{ProductID: 1, UnitPrice: d("100"), Quantity: -2},
			wantErr: ErrNonPositiveQuantity,
		},
		{
			name:    "negative price",
			line:    domcart.Line{ProductID: 1, UnitPrice: d("-1"), Quantity: 1},
			wantErr: ErrNegativeUnitPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSubtotal([]domcart.Line{tt.line})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func testPriceTable() domprinting.PriceTable {
	return domprinting.PriceTable{
		domprinting.TierSmall: {
			domprinting.LocationFront: d("50"),
		},
		domprinting.TierMedium: {
			domprinting.LocationFront: d("100"),
			domprinting.LocationBack:  d("80"),
		},
	}
}

func TestComputePrintingSurcharge_NoSelection(t *testing.T) {
	surcharge, err := ComputePrintingSurcharge(nil, testPriceTable(), 5)
	require.NoError(t, err)
	require.True(t, surcharge.IsZero())
}

func TestComputePrintingSurcharge_SingleMultiplication(t *testing.T) {
	sel := &domprinting.Selection{
		Tier:      domprinting.TierMedium,
		Locations: []domprinting.Location{domprinting.LocationFront, domprinting.LocationBack},
	}

	// (100 + 80) per unit, scaled once by the total cart quantity.
	surcharge, err := ComputePrintingSurcharge(sel, testPriceTable(), 3)
	require.NoError(t, err)
	require.True(t, surcharge.Equal(d("540")), "got %s", surcharge)
}

func TestComputePrintingSurcharge_UnknownOptions(t *testing.T) {
	tests := []struct {
		name    string
		sel     domprinting.Selection
		wantErr error
	}{
		{
			name: "tier missing from table",
			sel: domprinting.Selection{
				Tier:      domprinting.TierLarge,
				Locations: []domprinting.Location{domprinting.LocationFront},
			},
			wantErr: domprinting.ErrUnknownOption,
		},
		{
			name: "location missing for tier",
			sel: domprinting.Selection{
				Tier:      domprinting.TierSmall,
				Locations: []domprinting.Location{domprinting.LocationBack},
			},
			wantErr: domprinting.ErrUnknownOption,
		},
		{
			name: "invalid tier",
			sel: domprinting.Selection{
				Tier:      domprinting.Tier("HUGE"),
				Locations: []domprinting.Location{domprinting.LocationFront},
			},
			wantErr: domprinting.ErrInvalidTier,
		},
		{
			name: "no locations",
			sel: domprinting.Selection{
				Tier: domprinting.TierSmall,
			},
			wantErr: domprinting.ErrNoLocations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePrintingSurcharge(&tt.sel, testPriceTable(), 2)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeDeliveryCharge(t *testing.T) {
	rule := domproduct.DeliveryRule{
		FlatCharge:         d("59"),
		FreeAboveThreshold: d("2500"),
	}

	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{name: "below threshold", subtotal: "2000", want: "59"},
		{name: "at threshold ships free", subtotal: "2500", want: "0"},
		{name: "above threshold", subtotal: "3000", want: "0"},
		{name: "just below threshold", subtotal: "2499.99", want: "59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDeliveryCharge(d(tt.subtotal), rule)
			require.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestComputePreDiscountTotal(t *testing.T) {
	total := ComputePreDiscountTotal(d("2000"), d("200"), d("59"))
	require.True(t, total.Equal(d("2259")))
}
