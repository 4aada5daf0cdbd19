package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
	domcoupon "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/coupon"
	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/gateway"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/metrics"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/security"
	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
	orderuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/order"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/pricing"
)

type TokenService interface {
	ParseToken(token string) (*security.Claims, error)
}

type API struct {
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	hub         *gateway.ConfirmationHub
	tokenSvc    TokenService
	validator   *validator.Validate
}

type Dependencies struct {
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	ConfirmationHub *gateway.ConfirmationHub
	TokenService    TokenService
}

func NewAPI(deps Dependencies) *API {
	return &API{
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		hub:         deps.ConfirmationHub,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/me/checkout", func(cr chi.Router) {
				cr.Post("/quote", a.handleQuote)
				cr.Post("/", a.handleCheckout)
				cr.Get("/intent", a.handlePendingIntent)
				cr.Post("/confirm", a.handleConfirmPayment)
				cr.Post("/cancel", a.handleCancelPayment)
			})

			pr.Get("/me/orders", a.handleListOrders)
			pr.Get("/me/orders/{id}", a.handleGetOrder)

			// Role enforcement happens at the auth service in front of
			// this API; fulfilment staff tokens reach this route.
			pr.Patch("/admin/orders/{id}/status", a.handleUpdateOrderStatus)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"title":      item.Title,
			"unit_price": item.UnitPrice.String(),
			"quantity":   item.Quantity,
			"size":       item.Size,
			"color":      item.Color,
		})
	}

	history := make([]map[string]any, 0, len(o.History))
	for _, entry := range o.History {
		history = append(history, map[string]any{
			"status":     entry.Status,
			"note":       entry.Note,
			"actor":      entry.Actor,
			"created_at": entry.CreatedAt,
		})
	}

	out := map[string]any{
		"id":                 o.ID,
		"reference":          o.Reference,
		"status":             o.Status,
		"payment_method":     o.PaymentMethod,
		"payment_status":     o.PaymentStatus,
		"subtotal":           o.Subtotal.String(),
		"printing_surcharge": o.PrintingSurcharge.String(),
		"delivery_charge":    o.DeliveryCharge.String(),
		"discount_amount":    o.DiscountAmount.String(),
		"total_amount":       o.TotalAmount.String(),
		"items":              items,
		"history":            history,
		"created_at":         o.CreatedAt,
		"address": map[string]any{
			"full_name":    o.Address.FullName,
			"phone":        o.Address.Phone,
			"address_line": o.Address.AddressLine,
			"city":         o.Address.City,
			"state":        o.Address.State,
			"postal_code":  o.Address.PostalCode,
		},
	}
	if o.Printing != nil {
		out["printing"] = map[string]any{
			"tier":      o.Printing.Selection.Tier,
			"locations": o.Printing.Selection.Locations,
			"per_unit":  o.Printing.PerUnit.String(),
		}
	}
	if o.CouponID != nil {
		out["coupon_id"] = *o.CouponID
	}
	return out
}

func handleDomainError(w http.ResponseWriter, err error) {
	var gwErr *checkoutuc.GatewayError
	var persistErr *checkoutuc.PersistenceError
	var consistencyErr *checkoutuc.ConsistencyError

	switch {
	case errors.Is(err, domcart.ErrEmptyCart),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidAddress),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, pricing.ErrNonPositiveQuantity),
		errors.Is(err, pricing.ErrNegativeUnitPrice),
		errors.Is(err, domprinting.ErrInvalidTier),
		errors.Is(err, domprinting.ErrNoLocations),
		errors.Is(err, domprinting.ErrUnknownOption),
		errors.Is(err, domprinting.ErrEmptyTable),
		errors.Is(err, domprinting.ErrDuplicatePlace):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domcoupon.ErrCouponNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, gateway.ErrUnknownIntent):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, checkoutuc.ErrPaymentCancelled):
		respondError(w, http.StatusConflict, err)
	case errors.As(err, &gwErr):
		respondError(w, http.StatusBadGateway, err)
	case errors.As(err, &consistencyErr):
		// Money was captured; never degrade this to a generic failure.
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "your payment was received but the order could not be finalised; " +
				"it has been flagged for reconciliation and support will contact you",
			Details: map[string]string{
				"intent_id":  consistencyErr.IntentID,
				"payment_id": consistencyErr.PaymentID,
			},
		})
	case errors.As(err, &persistErr):
		respondError(w, http.StatusInternalServerError, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
