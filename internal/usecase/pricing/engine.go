package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
)

// The engine is pure computation: no I/O, no state, identical results for
// identical inputs.

var (
	ErrNonPositiveQuantity = errors.New("line quantity must be positive")
	ErrNegativeUnitPrice   = errors.New("line unit price must not be negative")
)

// ComputeSubtotal sums unit price times quantity over all lines.
func ComputeSubtotal(lines []domcart.Line) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return decimal.Zero, ErrNonPositiveQuantity
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, ErrNegativeUnitPrice
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return subtotal, nil
}

// ComputePrintingSurcharge prices a custom-printing selection: the
// per-location unit prices for the selected tier are summed once, then
// multiplied once by the total cart quantity. No selection means no
// surcharge; an option missing from the table is an error, not a zero.
func ComputePrintingSurcharge(sel *domprinting.Selection, table domprinting.PriceTable, totalQuantity int64) (decimal.Decimal, error) {
	if sel == nil {
		return decimal.Zero, nil
	}
	perUnit, err := table.PerUnitSurcharge(*sel)
	if err != nil {
		return decimal.Zero, err
	}
	return perUnit.Mul(decimal.NewFromInt(totalQuantity)), nil
}

// ComputeDeliveryCharge applies the flat-or-free rule. The boundary is
// inclusive: a subtotal equal to the threshold ships free.
func ComputeDeliveryCharge(subtotal decimal.Decimal, rule domproduct.DeliveryRule) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(rule.FreeAboveThreshold) {
		return decimal.Zero
	}
	return rule.FlatCharge
}

// ComputePreDiscountTotal is exposed separately so coupon minimum-purchase
// checks stay defined against the bare subtotal, not this inflated figure.
func ComputePreDiscountTotal(subtotal, surcharge, delivery decimal.Decimal) decimal.Decimal {
	return subtotal.Add(surcharge).Add(delivery)
}
