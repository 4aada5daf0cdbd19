package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	KindPercentage DiscountKind = "PERCENTAGE"
	KindFixed      DiscountKind = "FIXED"
)

func (k DiscountKind) IsValid() bool {
	switch k {
	case KindPercentage, KindFixed:
		return true
	default:
		return false
	}
}

// Coupon is the admin-managed discount record. Only TimesUsed is ever
// mutated by the checkout flow, and only through the store's atomic
// compare-and-increment.
type Coupon struct {
	ID                int64
	Code              string
	Kind              DiscountKind
	Value             decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount decimal.Decimal
	ValidFrom         time.Time
	ValidUntil        *time.Time // nil = unbounded
	Active            bool
	UsageLimit        int64 // 0 = unlimited
	TimesUsed         int64
	ProductScope      []int64 // nil = all products
}

// AppliesToAll reports whether the coupon has no product restriction.
func (c *Coupon) AppliesToAll() bool {
	return c.ProductScope == nil
}
