package mysql

import (
	"context"
	"database/sql"
	"time"

	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
)

// ReconciliationRepository stores captured payments whose order commit
// failed. Rows here mean money was taken with no order to show for it; they
// exist to be worked off manually, never silently dropped.
type ReconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) Flag(ctx context.Context, rec checkoutuc.Reconciliation) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO payment_reconciliations (user_id, intent_id, payment_id, amount, reason, resolved, created_at)
        VALUES (?, ?, ?, ?, ?, FALSE, ?)
    `, rec.UserID, rec.IntentID, rec.PaymentID, rec.Amount, rec.Reason, time.Now().UTC())
	return err
}
