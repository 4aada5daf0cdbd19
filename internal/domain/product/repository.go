package product

import "context"

type Repository interface {
	GetPricingMetadata(ctx context.Context, ids []int64) ([]*PricingMetadata, error)
}
