package printing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Tier is the discrete print-size category. Each tier allows its own set of
// placement locations and carries its own per-location unit prices.
type Tier string

const (
	TierSmall  Tier = "SMALL"
	TierMedium Tier = "MEDIUM"
	TierLarge  Tier = "LARGE"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierSmall, TierMedium, TierLarge:
		return true
	default:
		return false
	}
}

type Location string

const (
	LocationFront       Location = "FRONT"
	LocationBack        Location = "BACK"
	LocationLeftSleeve  Location = "LEFT_SLEEVE"
	LocationRightSleeve Location = "RIGHT_SLEEVE"
)

// Selection is the customer's custom-printing choice: one tier plus the
// placement locations within that tier.
type Selection struct {
	Tier      Tier
	Locations []Location
}

// PriceTable maps tier -> location -> per-unit surcharge, as supplied by the
// product. A tier/location pair absent from the table is not priceable.
type PriceTable map[Tier]map[Location]decimal.Decimal

var (
	ErrInvalidTier    = errors.New("invalid printing tier")
	ErrNoLocations    = errors.New("no printing locations selected")
	ErrUnknownOption  = errors.New("printing option not offered for this product")
	ErrEmptyTable     = errors.New("product has no printing price table")
	ErrDuplicatePlace = errors.New("duplicate printing location")
)

// PerUnitSurcharge sums the table prices for the selection's locations under
// its tier. Unknown tier or location is an error, never a silent zero.
func (pt PriceTable) PerUnitSurcharge(sel Selection) (decimal.Decimal, error) {
	if len(pt) == 0 {
		return decimal.Zero, ErrEmptyTable
	}
	if !sel.Tier.IsValid() {
		return decimal.Zero, ErrInvalidTier
	}
	if len(sel.Locations) == 0 {
		return decimal.Zero, ErrNoLocations
	}

	tierPrices, ok := pt[sel.Tier]
	if !ok {
		return decimal.Zero, ErrUnknownOption
	}

	perUnit := decimal.Zero
	seen := make(map[Location]bool, len(sel.Locations))
	for _, loc := range sel.Locations {
		if seen[loc] {
			return decimal.Zero, ErrDuplicatePlace
		}
		seen[loc] = true
		price, ok := tierPrices[loc]
		if !ok {
			return decimal.Zero, ErrUnknownOption
		}
		perUnit = perUnit.Add(price)
	}
	return perUnit, nil
}
