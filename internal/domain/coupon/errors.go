package coupon

import "errors"

var ErrCouponNotFound = errors.New("coupon not found")

// RejectionReason identifies which eligibility check a coupon failed.
// Checkout treats a rejection as non-fatal: the order proceeds without
// the discount and the reason is surfaced to the user.
type RejectionReason string

const (
	ReasonNotFound          RejectionReason = "COUPON_NOT_FOUND"
	ReasonInactive          RejectionReason = "COUPON_INACTIVE"
	ReasonOutsideWindow     RejectionReason = "COUPON_OUTSIDE_VALIDITY_WINDOW"
	ReasonMinPurchaseNotMet RejectionReason = "MIN_PURCHASE_NOT_MET"
	ReasonNotApplicable     RejectionReason = "NOT_APPLICABLE_TO_CART"
	ReasonUsageLimitReached RejectionReason = "USAGE_LIMIT_REACHED"
)

func (r RejectionReason) Message() string {
	switch r {
	case ReasonNotFound:
		return "coupon code not recognised"
	case ReasonInactive:
		return "this coupon is no longer active"
	case ReasonOutsideWindow:
		return "this coupon is outside its validity period"
	case ReasonMinPurchaseNotMet:
		return "order subtotal is below the coupon minimum"
	case ReasonNotApplicable:
		return "this coupon does not apply to the items in your cart"
	case ReasonUsageLimitReached:
		return "this coupon has reached its usage limit"
	default:
		return "coupon cannot be applied"
	}
}
