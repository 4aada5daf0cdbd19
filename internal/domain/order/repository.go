package order

import "context"

type Repository interface {
	// Create persists the order, its line items and its first status-history
	// entry in one transaction. This is the single point at which an order
	// first exists durably.
	Create(ctx context.Context, o *Order) (*Order, error)

	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByReference(ctx context.Context, ref string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)

	// UpdateStatus transitions the order and appends one history entry;
	// the two writes share a transaction.
	UpdateStatus(ctx context.Context, id int64, status Status, entry StatusHistoryEntry) (*Order, error)
}
