package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domcoupon "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/coupon"
)

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `
    id, code, kind, value, min_purchase_amount, max_discount_amount,
    valid_from, valid_until, active, usage_limit, times_used, product_scope`

func scanCoupon(scan func(dest ...any) error) (*domcoupon.Coupon, error) {
	var c domcoupon.Coupon
	var scope []byte
	err := scan(
		&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinPurchaseAmount, &c.MaxDiscountAmount,
		&c.ValidFrom, &c.ValidUntil, &c.Active, &c.UsageLimit, &c.TimesUsed, &scope,
	)
	if err != nil {
		return nil, err
	}
	if len(scope) > 0 {
		if err := json.Unmarshal(scope, &c.ProductScope); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domcoupon.Coupon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+couponColumns+` FROM coupons WHERE code = ?`, code)
	c, err := scanCoupon(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcoupon.ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CouponRepository) ListActive(ctx context.Context) ([]*domcoupon.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+couponColumns+` FROM coupons WHERE active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*domcoupon.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows.Scan)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// IncrementUsageIfBelowLimit is a single guarded UPDATE, not a read followed
// by a write: two concurrent redemptions of a coupon with one remaining use
// race on the row, and exactly one sees an affected row.
func (r *CouponRepository) IncrementUsageIfBelowLimit(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE coupons
        SET times_used = times_used + 1
        WHERE id = ? AND (usage_limit = 0 OR times_used < usage_limit)
    `, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
