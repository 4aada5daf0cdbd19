package coupon

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domcoupon "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/coupon"
)

// Result is the discriminated outcome of a validation: either a discount
// amount, or the reason the first failing check produced.
type Result struct {
	Valid          bool
	DiscountAmount decimal.Decimal
	Reason         domcoupon.RejectionReason
}

func rejected(reason domcoupon.RejectionReason) Result {
	return Result{Valid: false, Reason: reason}
}

var hundred = decimal.NewFromInt(100)

// Validate runs the eligibility checks in order, short-circuiting on the
// first failure: active flag, validity window, minimum purchase against the
// bare product subtotal, product scope intersection, usage limit. Eligible
// coupons get their discount computed and clamped to the configured cap;
// the clamp applies to fixed-amount coupons too.
func Validate(c *domcoupon.Coupon, subtotal decimal.Decimal, cartProductIDs []int64, now time.Time) Result {
	if !c.Active {
		return rejected(domcoupon.ReasonInactive)
	}

	if now.Before(c.ValidFrom) {
		return rejected(domcoupon.ReasonOutsideWindow)
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return rejected(domcoupon.ReasonOutsideWindow)
	}

	if subtotal.LessThan(c.MinPurchaseAmount) {
		return rejected(domcoupon.ReasonMinPurchaseNotMet)
	}

	if !c.AppliesToAll() && !intersects(c.ProductScope, cartProductIDs) {
		return rejected(domcoupon.ReasonNotApplicable)
	}

	if c.UsageLimit != 0 && c.TimesUsed >= c.UsageLimit {
		return rejected(domcoupon.ReasonUsageLimitReached)
	}

	return Result{Valid: true, DiscountAmount: computeDiscount(c, subtotal)}
}

func computeDiscount(c *domcoupon.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch c.Kind {
	case domcoupon.KindPercentage:
		raw = subtotal.Mul(c.Value).Div(hundred)
	case domcoupon.KindFixed:
		raw = c.Value
	default:
		return decimal.Zero
	}
	// Zero cap means uncapped, mirroring UsageLimit.
	if c.MaxDiscountAmount.IsPositive() && raw.GreaterThan(c.MaxDiscountAmount) {
		raw = c.MaxDiscountAmount
	}
	// The store keeps amounts at two decimal places; quantize here so the
	// breakdown identity survives persistence.
	return raw.Round(2)
}

func intersects(scope, cartProductIDs []int64) bool {
	inScope := make(map[int64]bool, len(scope))
	for _, id := range scope {
		inScope[id] = true
	}
	for _, id := range cartProductIDs {
		if inScope[id] {
			return true
		}
	}
	return false
}

// Eligible pairs a coupon with its computed discount for display.
type Eligible struct {
	Coupon         *domcoupon.Coupon
	DiscountAmount decimal.Decimal
}

// SortEligible validates each coupon and returns the eligible ones ordered
// by descending discount. Presentation only: the ordering has no effect on
// validation or redemption.
func SortEligible(coupons []*domcoupon.Coupon, subtotal decimal.Decimal, cartProductIDs []int64, now time.Time) []Eligible {
	eligible := make([]Eligible, 0, len(coupons))
	for _, c := range coupons {
		res := Validate(c, subtotal, cartProductIDs, now)
		if res.Valid {
			eligible = append(eligible, Eligible{Coupon: c, DiscountAmount: res.DiscountAmount})
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].DiscountAmount.GreaterThan(eligible[j].DiscountAmount)
	})
	return eligible
}
