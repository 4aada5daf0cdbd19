package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	if !o.BreakdownConsistent() {
		return nil, domorder.ErrInconsistentTotal
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var printingTier sql.NullString
	var printingLocations []byte
	var printingPerUnit any
	if o.Printing != nil {
		printingTier = sql.NullString{String: string(o.Printing.Selection.Tier), Valid: true}
		printingLocations, err = json.Marshal(o.Printing.Selection.Locations)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		printingPerUnit = o.Printing.PerUnit
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (
            reference, user_id, status, payment_method, payment_status,
            ship_full_name, ship_phone, ship_address_line, ship_city, ship_state, ship_postal_code,
            design_ref, printing_tier, printing_locations, printing_per_unit,
            subtotal, printing_surcharge, delivery_charge, discount_amount, total_amount,
            coupon_id, gateway_intent_id, gateway_payment_id, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		o.Reference, o.UserID, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.Address.FullName, o.Address.Phone, o.Address.AddressLine, o.Address.City, o.Address.State, o.Address.PostalCode,
		o.DesignRef, printingTier, printingLocations, printingPerUnit,
		o.Subtotal, o.PrintingSurcharge, o.DeliveryCharge, o.DiscountAmount, o.TotalAmount,
		o.CouponID, o.GatewayIntentID, o.GatewayPaymentID, o.CreatedAt,
	)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	orderID, _ := res.LastInsertId()

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, title, unit_price, quantity, size, color)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `, orderID, item.ProductID, item.Title, item.UnitPrice, item.Quantity, item.Size, item.Color)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	for _, entry := range o.History {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_status_history (order_id, status, note, actor, created_at)
            VALUES (?, ?, ?, ?, ?)
        `, orderID, entry.Status, entry.Note, entry.Actor, entry.CreatedAt)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}

	return r.GetByID(ctx, orderID)
}

const orderColumns = `
    id, reference, user_id, status, payment_method, payment_status,
    ship_full_name, ship_phone, ship_address_line, ship_city, ship_state, ship_postal_code,
    design_ref, printing_tier, printing_locations, printing_per_unit,
    subtotal, printing_surcharge, delivery_charge, discount_amount, total_amount,
    coupon_id, gateway_intent_id, gateway_payment_id, created_at`

func (r *OrderRepository) scanOrder(row *sql.Row) (*domorder.Order, error) {
	var o domorder.Order
	var printingTier sql.NullString
	var printingLocations []byte
	var printingPerUnit decimal.NullDecimal

	err := row.Scan(
		&o.ID, &o.Reference, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.Address.FullName, &o.Address.Phone, &o.Address.AddressLine, &o.Address.City, &o.Address.State, &o.Address.PostalCode,
		&o.DesignRef, &printingTier, &printingLocations, &printingPerUnit,
		&o.Subtotal, &o.PrintingSurcharge, &o.DeliveryCharge, &o.DiscountAmount, &o.TotalAmount,
		&o.CouponID, &o.GatewayIntentID, &o.GatewayPaymentID, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}

	if printingTier.Valid {
		var locations []domprinting.Location
		if len(printingLocations) > 0 {
			if err := json.Unmarshal(printingLocations, &locations); err != nil {
				return nil, err
			}
		}
		o.Printing = &domorder.PrintingSnapshot{
			Selection: domprinting.Selection{
				Tier:      domprinting.Tier(printingTier.String),
				Locations: locations,
			},
			PerUnit: printingPerUnit.Decimal,
		}
	}
	return &o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, o)
}

func (r *OrderRepository) GetByReference(ctx context.Context, ref string) (*domorder.Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `SELECT`+orderColumns+` FROM orders WHERE reference = ?`, ref))
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, o)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM orders WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*domorder.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status, entry domorder.StatusHistoryEntry) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		retErr = domorder.ErrOrderNotFound
		return nil, retErr
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO order_status_history (order_id, status, note, actor, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, id, entry.Status, entry.Note, entry.Actor, entry.CreatedAt)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) hydrate(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	history, err := r.listHistory(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.History = history
	return o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID int64) ([]domorder.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, title, unit_price, quantity, size, color
        FROM order_items WHERE order_id = ?
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.Item
	for rows.Next() {
		var item domorder.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Title,
			&item.UnitPrice, &item.Quantity, &item.Size, &item.Color); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) listHistory(ctx context.Context, orderID int64) ([]domorder.StatusHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, status, note, actor, created_at
        FROM order_status_history WHERE order_id = ? ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domorder.StatusHistoryEntry
	for rows.Next() {
		var e domorder.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Note, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
