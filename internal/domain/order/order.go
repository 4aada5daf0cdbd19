package order

import (
	"time"

	"github.com/shopspring/decimal"

	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCOD, PaymentOnline:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Address is the shipping-address snapshot copied onto the order at commit.
type Address struct {
	FullName    string
	Phone       string
	AddressLine string
	City        string
	State       string
	PostalCode  string
}

// Item is a line-item snapshot: product data copied at commit time, never a
// live reference.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int64
	Size      string
	Color     string
}

type StatusHistoryEntry struct {
	ID        int64
	OrderID   int64
	Status    Status
	Note      string
	Actor     string
	CreatedAt time.Time
}

// PrintingSnapshot captures the custom-printing selection and its priced
// per-unit surcharge as they were at commit time.
type PrintingSnapshot struct {
	Selection domprinting.Selection
	PerUnit   decimal.Decimal
}

type Order struct {
	ID            int64
	Reference     string
	UserID        int64
	Status        Status
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Address       Address
	Items         []Item

	DesignRef *string
	Printing  *PrintingSnapshot

	Subtotal          decimal.Decimal
	PrintingSurcharge decimal.Decimal
	DeliveryCharge    decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
	CouponID          *int64

	GatewayIntentID  *string
	GatewayPaymentID *string

	History   []StatusHistoryEntry
	CreatedAt time.Time
}

// BreakdownConsistent reports whether the persisted amounts satisfy
// total = subtotal + surcharge + delivery - discount, exactly.
func (o *Order) BreakdownConsistent() bool {
	want := o.Subtotal.
		Add(o.PrintingSurcharge).
		Add(o.DeliveryCharge).
		Sub(o.DiscountAmount)
	return o.TotalAmount.Equal(want)
}
