package product

import (
	"github.com/shopspring/decimal"

	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
)

// DeliveryRule is the flat-or-free delivery pricing: the flat charge applies
// below the threshold, delivery is free at or above it.
type DeliveryRule struct {
	FlatCharge         decimal.Decimal
	FreeAboveThreshold decimal.Decimal
}

// PricingMetadata is everything checkout needs to price a product: the
// current unit price, the custom-printing price table (nil when the product
// is not printable) and an optional per-product delivery rule override.
type PricingMetadata struct {
	ProductID      int64
	Title          string
	UnitPrice      decimal.Decimal
	PrintingPrices domprinting.PriceTable
	DeliveryRule   *DeliveryRule
}
