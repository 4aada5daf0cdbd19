package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	domprinting "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/printing"
	domproduct "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetPricingMetadata(ctx context.Context, ids []int64) ([]*domproduct.PricingMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, price, printing_prices, delivery_flat_charge, delivery_free_above
        FROM products
        WHERE id IN (`+placeholders+`)
    `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meta []*domproduct.PricingMetadata
	for rows.Next() {
		var m domproduct.PricingMetadata
		var printingPrices []byte
		var flatCharge, freeAbove decimal.NullDecimal

		if err := rows.Scan(&m.ProductID, &m.Title, &m.UnitPrice,
			&printingPrices, &flatCharge, &freeAbove); err != nil {
			return nil, err
		}

		if len(printingPrices) > 0 {
			var table domprinting.PriceTable
			if err := json.Unmarshal(printingPrices, &table); err != nil {
				return nil, err
			}
			m.PrintingPrices = table
		}
		if flatCharge.Valid && freeAbove.Valid {
			m.DeliveryRule = &domproduct.DeliveryRule{
				FlatCharge:         flatCharge.Decimal,
				FreeAboveThreshold: freeAbove.Decimal,
			}
		}
		meta = append(meta, &m)
	}
	return meta, rows.Err()
}
