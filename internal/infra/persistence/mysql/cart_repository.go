package mysql

import (
	"context"
	"database/sql"

	domcart "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListLines snapshots the cart with current product prices: the price each
// line carries is the one checkout will charge, regardless of later edits.
func (r *CartRepository) ListLines(ctx context.Context, userID int64) ([]domcart.Line, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT ci.product_id, p.title, p.price, ci.quantity, ci.size, ci.color
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.user_id = ?
        ORDER BY ci.id
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domcart.Line
	for rows.Next() {
		var line domcart.Line
		if err := rows.Scan(&line.ProductID, &line.Title, &line.UnitPrice,
			&line.Quantity, &line.Size, &line.Color); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
