package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
	domcoupon "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/coupon"
	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
	couponuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/coupon"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/metrics"
)

type CartRepository interface {
	domcart.Repository
}

type ProductRepository interface {
	domproduct.Repository
}

type CouponStore interface {
	domcoupon.Repository
}

type OrderRepository interface {
	Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
}

// Prefill is the contact info handed to the gateway widget, plus the owning
// user so the adapter can index the pending confirmation.
type Prefill struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

// SignedPayload is the gateway's confirmation: the intent, the gateway-side
// payment id and the signature binding them.
type SignedPayload struct {
	IntentID  string
	PaymentID string
	Signature string
}

// Confirmation is the tagged outcome of the interactive confirmation step:
// either the user completed payment or dismissed the widget.
type Confirmation struct {
	Cancelled bool
	Payload   SignedPayload
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error)

	// Confirm suspends until the interactive confirmation resolves. A
	// returned error covers transport and signature failures; a cancelled
	// confirmation is a normal outcome, not an error.
	Confirm(ctx context.Context, intentID string, prefill Prefill) (Confirmation, error)
}

// Reconciliation is the durable record of a captured payment whose order
// commit failed. It carries everything manual reconciliation needs.
type Reconciliation struct {
	UserID    int64
	IntentID  string
	PaymentID string
	Amount    decimal.Decimal
	Reason    string
}

type ReconciliationStore interface {
	Flag(ctx context.Context, rec Reconciliation) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, kind string) error
}

type Service struct {
	cartRepo      CartRepository
	productRepo   ProductRepository
	couponStore   CouponStore
	orderRepo     OrderRepository
	gateway       PaymentGateway
	reconciler    ReconciliationStore
	notifier      Notifier
	deliveryRule  domproduct.DeliveryRule
	currency      string
	commitRetries int
	log           *slog.Logger
	metrics       *metrics.Checkout
}

type Config struct {
	DeliveryRule  domproduct.DeliveryRule
	Currency      string
	CommitRetries int
}

func NewService(
	cartRepo CartRepository,
	productRepo ProductRepository,
	couponStore CouponStore,
	orderRepo OrderRepository,
	gateway PaymentGateway,
	reconciler ReconciliationStore,
	notifier Notifier,
	cfg Config,
	log *slog.Logger,
	m *metrics.Checkout,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.CommitRetries <= 0 {
		cfg.CommitRetries = 2
	}
	return &Service{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		couponStore:   couponStore,
		orderRepo:     orderRepo,
		gateway:       gateway,
		reconciler:    reconciler,
		notifier:      notifier,
		deliveryRule:  cfg.DeliveryRule,
		currency:      cfg.Currency,
		commitRetries: cfg.CommitRetries,
		log:           log,
		metrics:       m,
	}
}

type Input struct {
	UserID        int64
	PaymentMethod domorder.PaymentMethod
	Address       domorder.Address
	CouponCode    string
	Printing      *domprinting.Selection
	DesignRef     *string
	Prefill       Prefill
}

type Result struct {
	Order           *domorder.Order
	CouponRejection *CouponRejection
}

// Checkout runs the full pipeline: snapshot, pricing, coupon, settlement,
// single durable commit, then the post-commit side effects.
func (s *Service) Checkout(ctx context.Context, in Input) (*Result, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}
	if err := validateAddress(in.Address); err != nil {
		return nil, err
	}

	session, err := s.buildSession(ctx, in.UserID, in.CouponCode, in.Printing)
	if err != nil {
		return nil, err
	}

	var created *domorder.Order
	switch in.PaymentMethod {
	case domorder.PaymentCOD:
		created, err = s.commitCOD(ctx, session, in)
	case domorder.PaymentOnline:
		created, err = s.commitOnline(ctx, session, in)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCommitted.WithLabelValues(string(in.PaymentMethod)).Inc()
	s.applySideEffects(ctx, session, created)

	return &Result{Order: created, CouponRejection: session.CouponRejection}, nil
}

func (s *Service) commitCOD(ctx context.Context, session *Session, in Input) (*domorder.Order, error) {
	o := assembleOrder(session, in, domorder.StatusPlaced, domorder.PaymentStatusPending)
	created, err := s.orderRepo.Create(ctx, o)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return created, nil
}

func (s *Service) commitOnline(ctx context.Context, session *Session, in Input) (*domorder.Order, error) {
	intentID, err := s.gateway.CreateIntent(ctx, session.TotalAmount, s.currency)
	if err != nil {
		return nil, &GatewayError{Op: "create intent", Err: err}
	}

	prefill := in.Prefill
	prefill.UserID = session.UserID
	conf, err := s.gateway.Confirm(ctx, intentID, prefill)
	if err != nil {
		return nil, &GatewayError{Op: "confirm", Err: err}
	}
	if conf.Cancelled {
		// No residue: no order, no coupon change, cart untouched.
		s.metrics.GatewayCancellations.Inc()
		return nil, ErrPaymentCancelled
	}

	o := assembleOrder(session, in, domorder.StatusPaid, domorder.PaymentStatusPaid)
	o.GatewayIntentID = &conf.Payload.IntentID
	o.GatewayPaymentID = &conf.Payload.PaymentID

	created, err := s.orderRepo.Create(ctx, o)
	for attempt := 0; err != nil && attempt < s.commitRetries; attempt++ {
		s.log.ErrorContext(ctx, "order commit failed after captured payment, retrying",
			"intent_id", intentID, "attempt", attempt+1, "error", err)
		created, err = s.orderRepo.Create(ctx, o)
	}
	if err != nil {
		return nil, s.escalate(ctx, session, conf.Payload, err)
	}
	return created, nil
}

// escalate flags a captured payment with no order for manual reconciliation.
// This path must never degrade into a generic error.
func (s *Service) escalate(ctx context.Context, session *Session, payload SignedPayload, cause error) error {
	s.metrics.ReconciliationFlags.Inc()
	rec := Reconciliation{
		UserID:    session.UserID,
		IntentID:  payload.IntentID,
		PaymentID: payload.PaymentID,
		Amount:    session.TotalAmount,
		Reason:    cause.Error(),
	}
	if flagErr := s.reconciler.Flag(ctx, rec); flagErr != nil {
		s.log.ErrorContext(ctx, "CRITICAL: captured payment could not be flagged for reconciliation",
			"intent_id", payload.IntentID, "payment_id", payload.PaymentID,
			"amount", session.TotalAmount.String(), "flag_error", flagErr, "commit_error", cause)
	} else {
		s.log.ErrorContext(ctx, "captured payment flagged for manual reconciliation",
			"intent_id", payload.IntentID, "payment_id", payload.PaymentID,
			"amount", session.TotalAmount.String(), "commit_error", cause)
	}
	return &ConsistencyError{IntentID: payload.IntentID, PaymentID: payload.PaymentID, Err: cause}
}

// applySideEffects runs the post-commit steps in order: coupon usage
// increment, cart clear, notification. Failures here never invalidate the
// committed order; they are logged and retryable independently.
func (s *Service) applySideEffects(ctx context.Context, session *Session, o *domorder.Order) {
	if session.Coupon != nil {
		ok, err := s.couponStore.IncrementUsageIfBelowLimit(ctx, session.Coupon.ID)
		switch {
		case err != nil:
			s.log.ErrorContext(ctx, "coupon usage increment failed, order stands",
				"order_ref", o.Reference, "coupon_id", session.Coupon.ID, "error", err)
		case !ok:
			// The order keeps its discount: it locked it in at commit time.
			// Only the next checkout attempting this coupon is affected.
			s.metrics.CouponLimitHits.Inc()
			s.log.WarnContext(ctx, "coupon usage limit reached at redemption time",
				"order_ref", o.Reference, "coupon_id", session.Coupon.ID)
		default:
			s.metrics.CouponsRedeemed.Inc()
		}
	}

	if err := s.cartRepo.Clear(ctx, session.UserID); err != nil {
		s.log.ErrorContext(ctx, "cart clear failed after commit, order stands",
			"order_ref", o.Reference, "user_id", session.UserID, "error", err)
	}

	title := "Order placed"
	message := "Your order " + o.Reference + " has been placed."
	if o.PaymentStatus == domorder.PaymentStatusPaid {
		title = "Payment received"
		message = "Your payment for order " + o.Reference + " was received."
	}
	if err := s.notifier.Notify(ctx, session.UserID, title, message, "order"); err != nil {
		s.log.ErrorContext(ctx, "order notification failed",
			"order_ref", o.Reference, "user_id", session.UserID, "error", err)
	}
}

func assembleOrder(session *Session, in Input, status domorder.Status, payStatus domorder.PaymentStatus) *domorder.Order {
	items := make([]domorder.Item, 0, len(session.Cart.Lines))
	for _, line := range session.Cart.Lines {
		items = append(items, domorder.Item{
			ProductID: line.ProductID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
	}

	o := &domorder.Order{
		Reference:         uuid.NewString(),
		UserID:            session.UserID,
		Status:            status,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     payStatus,
		Address:           in.Address,
		Items:             items,
		DesignRef:         in.DesignRef,
		Printing:          session.Printing,
		Subtotal:          session.Subtotal,
		PrintingSurcharge: session.PrintingSurcharge,
		DeliveryCharge:    session.DeliveryCharge,
		DiscountAmount:    session.DiscountAmount,
		TotalAmount:       session.TotalAmount,
		CreatedAt:         time.Now().UTC(),
	}
	if session.Coupon != nil {
		id := session.Coupon.ID
		o.CouponID = &id
	}
	o.History = []domorder.StatusHistoryEntry{{
		Status:    status,
		Note:      "order created at checkout",
		Actor:     "system",
		CreatedAt: o.CreatedAt,
	}}
	return o
}

func validateAddress(a domorder.Address) error {
	if a.FullName == "" || a.AddressLine == "" || a.City == "" || a.PostalCode == "" {
		return domorder.ErrInvalidAddress
	}
	return nil
}

// Quote is the price preview shown before the user commits: the breakdown
// the order would carry, plus the coupons currently worth displaying.
type Quote struct {
	Subtotal          decimal.Decimal
	PrintingSurcharge decimal.Decimal
	DeliveryCharge    decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
	CouponRejection   *CouponRejection
	EligibleCoupons   []couponuc.Eligible
}

func (s *Service) Quote(ctx context.Context, userID int64, couponCode string, sel *domprinting.Selection) (*Quote, error) {
	session, err := s.buildSession(ctx, userID, couponCode, sel)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Subtotal:          session.Subtotal,
		PrintingSurcharge: session.PrintingSurcharge,
		DeliveryCharge:    session.DeliveryCharge,
		DiscountAmount:    session.DiscountAmount,
		TotalAmount:       session.TotalAmount,
		CouponRejection:   session.CouponRejection,
	}

	active, err := s.couponStore.ListActive(ctx)
	if err != nil {
		// Preview only: the quote is still useful without suggestions.
		s.log.WarnContext(ctx, "listing active coupons failed", "error", err)
		return q, nil
	}
	q.EligibleCoupons = couponuc.SortEligible(active, session.Subtotal, session.Cart.ProductIDs(), time.Now().UTC())
	return q, nil
}
