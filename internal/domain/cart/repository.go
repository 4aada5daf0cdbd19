package cart

import "context"

type Repository interface {
	ListLines(ctx context.Context, userID int64) ([]Line, error)
	Clear(ctx context.Context, userID int64) error
}
