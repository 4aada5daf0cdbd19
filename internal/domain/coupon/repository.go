package coupon

import "context"

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	ListActive(ctx context.Context) ([]*Coupon, error)

	// IncrementUsageIfBelowLimit performs an atomic compare-and-increment of
	// times_used against usage_limit in the store. Returns false when the
	// limit was already reached; the caller must not fall back to a
	// read-modify-write.
	IncrementUsageIfBelowLimit(ctx context.Context, id int64) (bool, error)
}
