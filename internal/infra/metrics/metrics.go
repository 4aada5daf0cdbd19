package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout counts the outcomes the checkout pipeline cares about. The
// registerer is injected so tests can use an isolated registry.
type Checkout struct {
	OrdersCommitted      *prometheus.CounterVec
	CouponsRedeemed      prometheus.Counter
	CouponLimitHits      prometheus.Counter
	GatewayCancellations prometheus.Counter
	ReconciliationFlags  prometheus.Counter
}

func NewCheckout(reg prometheus.Registerer) *Checkout {
	m := &Checkout{
		OrdersCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: "checkout",
			Name:      "orders_committed_total",
			Help:      "Orders durably committed, by payment method.",
		}, []string{"payment_method"}),
		CouponsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: "checkout",
			Name:      "coupons_redeemed_total",
			Help:      "Successful post-commit coupon usage increments.",
		}),
		CouponLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: "checkout",
			Name:      "coupon_limit_hits_total",
			Help:      "Redemptions skipped because the usage limit was already reached.",
		}),
		GatewayCancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: "checkout",
			Name:      "gateway_cancellations_total",
			Help:      "Online payments abandoned at the gateway confirmation step.",
		}),
		ReconciliationFlags: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "store",
			Subsystem: "checkout",
			Name:      "reconciliation_flags_total",
			Help:      "Confirmed payments whose order commit had to be escalated.",
		}),
	}
	reg.MustRegister(
		m.OrdersCommitted,
		m.CouponsRedeemed,
		m.CouponLimitHits,
		m.GatewayCancellations,
		m.ReconciliationFlags,
	)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
