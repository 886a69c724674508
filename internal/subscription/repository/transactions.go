package repository

import (
	"context"
	"database/sql"

	"optihub/internal/subscription"
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, t *subscription.PaymentTransaction) error {
	query := `
        INSERT INTO payment_transactions (id, account_id, subscription_id, gateway_payment_id,
                                          gateway_order_id, amount, currency, status,
                                          coupon_code, discount_amount, final_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()) RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		t.ID, t.AccountID, t.SubscriptionID, nullString(t.GatewayPaymentID),
		nullString(t.GatewayOrderID), t.Amount, t.Currency, t.Status,
		nullString(t.CouponCode), t.DiscountAmount, t.FinalAmount).
		Scan(&t.CreatedAt)
}

func (r *PostgresTransactionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*subscription.PaymentTransaction, error) {
	t := &subscription.PaymentTransaction{}
	var gatewayPaymentID, gatewayOrderID, couponCode sql.NullString

	err := r.db.QueryRowContext(ctx, `
        SELECT id, account_id, subscription_id, gateway_payment_id, gateway_order_id,
               amount, currency, status, coupon_code, discount_amount, final_amount, created_at
        FROM payment_transactions WHERE subscription_id = $1`, subscriptionID).
		Scan(&t.ID, &t.AccountID, &t.SubscriptionID, &gatewayPaymentID, &gatewayOrderID,
			&t.Amount, &t.Currency, &t.Status, &couponCode, &t.DiscountAmount, &t.FinalAmount, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	t.GatewayPaymentID = gatewayPaymentID.String
	t.GatewayOrderID = gatewayOrderID.String
	t.CouponCode = couponCode.String
	return t, nil
}
