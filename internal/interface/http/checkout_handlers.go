package http

import (
	"errors"
	"net/http"

	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/gateway"
	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
)

type printingRequest struct {
	Tier      string   `json:"tier" validate:"required,oneof=SMALL MEDIUM LARGE"`
	Locations []string `json:"locations" validate:"required,min=1,dive,oneof=FRONT BACK LEFT_SLEEVE RIGHT_SLEEVE"`
}

func (p *printingRequest) toSelection() *domprinting.Selection {
	if p == nil {
		return nil
	}
	locations := make([]domprinting.Location, 0, len(p.Locations))
	for _, loc := range p.Locations {
		locations = append(locations, domprinting.Location(loc))
	}
	return &domprinting.Selection{Tier: domprinting.Tier(p.Tier), Locations: locations}
}

type addressRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code" validate:"required"`
}

func (a addressRequest) toDomain() domorder.Address {
	return domorder.Address{
		FullName:    a.FullName,
		Phone:       a.Phone,
		AddressLine: a.AddressLine,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
	}
}

type quoteRequest struct {
	CouponCode string           `json:"coupon_code"`
	Printing   *printingRequest `json:"printing"`
}

func (a *API) handleQuote(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	var req quoteRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	quote, err := a.checkoutSvc.Quote(r.Context(), user.UserID, req.CouponCode, req.Printing.toSelection())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := map[string]any{
		"subtotal":           quote.Subtotal.String(),
		"printing_surcharge": quote.PrintingSurcharge.String(),
		"delivery_charge":    quote.DeliveryCharge.String(),
		"discount_amount":    quote.DiscountAmount.String(),
		"total_amount":       quote.TotalAmount.String(),
	}
	if quote.CouponRejection != nil {
		resp["coupon_rejection"] = map[string]any{
			"code":    quote.CouponRejection.Code,
			"reason":  quote.CouponRejection.Reason,
			"message": quote.CouponRejection.Message(),
		}
	}
	eligible := make([]map[string]any, 0, len(quote.EligibleCoupons))
	for _, e := range quote.EligibleCoupons {
		eligible = append(eligible, map[string]any{
			"code":            e.Coupon.Code,
			"discount_amount": e.DiscountAmount.String(),
		})
	}
	resp["eligible_coupons"] = eligible

	writeJSON(w, http.StatusOK, resp)
}

type checkoutRequest struct {
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=COD ONLINE"`
	Address       addressRequest   `json:"address" validate:"required"`
	CouponCode    string           `json:"coupon_code"`
	Printing      *printingRequest `json:"printing"`
	DesignRef     *string          `json:"design_ref"`
}

// handleCheckout runs the whole pipeline in one request. For ONLINE payments
// the request stays open until the widget confirms or cancels; the client
// polls GET /me/checkout/intent to discover the intent to open the widget on.
func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.checkoutSvc.Checkout(r.Context(), checkoutuc.Input{
		UserID:        user.UserID,
		PaymentMethod: domorder.PaymentMethod(req.PaymentMethod),
		Address:       req.Address.toDomain(),
		CouponCode:    req.CouponCode,
		Printing:      req.Printing.toSelection(),
		DesignRef:     req.DesignRef,
		Prefill: checkoutuc.Prefill{
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		},
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := map[string]any{"order": mapOrder(result.Order)}
	if result.CouponRejection != nil {
		resp["coupon_rejection"] = map[string]any{
			"code":    result.CouponRejection.Code,
			"reason":  result.CouponRejection.Reason,
			"message": result.CouponRejection.Message(),
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handlePendingIntent(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())

	intentID, ok := a.hub.PendingIntent(user.UserID)
	if !ok {
		respondError(w, http.StatusNotFound, gateway.ErrUnknownIntent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"intent_id": intentID})
}

type confirmRequest struct {
	IntentID  string `json:"intent_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// handleConfirmPayment is the widget success callback. It wakes the
// suspended checkout request; that request performs signature verification
// and carries the commit.
func (a *API) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	err := a.hub.Resolve(req.IntentID, checkoutuc.SignedPayload{
		IntentID:  req.IntentID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	switch {
	case errors.Is(err, gateway.ErrUnknownIntent):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, gateway.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, err)
	case err != nil:
		respondError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

type cancelRequest struct {
	IntentID string `json:"intent_id" validate:"required"`
}

func (a *API) handleCancelPayment(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	err := a.hub.Cancel(req.IntentID)
	switch {
	case errors.Is(err, gateway.ErrUnknownIntent):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, gateway.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, err)
	case err != nil:
		respondError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelled"})
	}
}
