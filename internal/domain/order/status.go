package order

type Status string

// Placed and Paid are the first states ever persisted: Placed for the
// pay-on-delivery path, Paid once the gateway confirmed an online payment.
// The draft and pending-payment phases before commit are in-memory only.
const (
	StatusPlaced     Status = "PLACED"
	StatusPaid       Status = "PAID"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusPaid, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) isTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo enforces the fulfilment state machine:
// Placed/Paid -> Processing -> Shipped -> Delivered, with Cancelled and
// Refunded reachable from any pre-Delivered state.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	if next == StatusCancelled || next == StatusRefunded {
		return !s.isTerminal()
	}
	switch s {
	case StatusPlaced, StatusPaid:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}
