package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
	domcoupon "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/coupon"
	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
	couponuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/coupon"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/pricing"
)

// CouponRejection reports why the selected coupon was not applied. It is
// carried on the result, not returned as an error: checkout proceeds
// without the discount.
type CouponRejection struct {
	Code   string
	Reason domcoupon.RejectionReason
}

func (r *CouponRejection) Message() string {
	return r.Reason.Message()
}

// Session is the explicit checkout state threaded through the flow: the
// cart snapshot, the priced selections and the full amount breakdown.
// Nothing here is read from ambient state.
type Session struct {
	UserID int64
	Cart   domcart.Snapshot

	Printing *domorder.PrintingSnapshot

	Subtotal          decimal.Decimal
	PrintingSurcharge decimal.Decimal
	DeliveryCharge    decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalAmount       decimal.Decimal

	Coupon          *domcoupon.Coupon
	CouponRejection *CouponRejection
}

func (s *Service) buildSession(ctx context.Context, userID int64, couponCode string, sel *domprinting.Selection) (*Session, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := domcart.Snapshot{UserID: userID, Lines: lines}
	if snapshot.IsEmpty() {
		return nil, domcart.ErrEmptyCart
	}

	meta, err := s.productRepo.GetPricingMetadata(ctx, snapshot.ProductIDs())
	if err != nil {
		return nil, err
	}

	subtotal, err := pricing.ComputeSubtotal(lines)
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserID:   userID,
		Cart:     snapshot,
		Subtotal: subtotal,
	}

	surcharge := decimal.Zero
	if sel != nil {
		table := printingTable(meta)
		perUnit, err := table.PerUnitSurcharge(*sel)
		if err != nil {
			return nil, err
		}
		surcharge = perUnit.Mul(decimal.NewFromInt(snapshot.TotalQuantity()))
		session.Printing = &domorder.PrintingSnapshot{Selection: *sel, PerUnit: perUnit}
	}
	session.PrintingSurcharge = surcharge

	session.DeliveryCharge = pricing.ComputeDeliveryCharge(subtotal, deliveryRule(meta, s.deliveryRule))

	if couponCode != "" {
		s.applyCoupon(ctx, session, couponCode)
	}

	session.TotalAmount = pricing.
		ComputePreDiscountTotal(session.Subtotal, session.PrintingSurcharge, session.DeliveryCharge).
		Sub(session.DiscountAmount)

	return session, nil
}

// applyCoupon never fails the session: any rejection is recorded and the
// checkout continues without a discount.
func (s *Service) applyCoupon(ctx context.Context, session *Session, code string) {
	c, err := s.couponStore.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domcoupon.ErrCouponNotFound) {
			s.log.WarnContext(ctx, "coupon lookup failed, proceeding without discount",
				"coupon_code", code, "error", err)
		}
		session.CouponRejection = &CouponRejection{Code: code, Reason: domcoupon.ReasonNotFound}
		return
	}

	res := couponuc.Validate(c, session.Subtotal, session.Cart.ProductIDs(), time.Now().UTC())
	if !res.Valid {
		session.CouponRejection = &CouponRejection{Code: code, Reason: res.Reason}
		return
	}

	session.Coupon = c
	session.DiscountAmount = res.DiscountAmount
}

// printingTable picks the price table the cart offers. Custom printing is a
// per-product feature; the first printable product in the cart supplies the
// table, and a cart with none makes any selection an unknown option.
func printingTable(meta []*domproduct.PricingMetadata) domprinting.PriceTable {
	for _, m := range meta {
		if len(m.PrintingPrices) > 0 {
			return m.PrintingPrices
		}
	}
	return nil
}

func deliveryRule(meta []*domproduct.PricingMetadata, fallback domproduct.DeliveryRule) domproduct.DeliveryRule {
	for _, m := range meta {
		if m.DeliveryRule != nil {
			return *m.DeliveryRule
		}
	}
	return fallback
}
