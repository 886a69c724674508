package repository

import (
	"context"
	"database/sql"

	"optihub/internal/subscription"
)

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `
        INSERT INTO subscriptions (id, account_id, plan_id, status, start_at, end_at,
                                   quota_used, quota_total, payment_id, coupon_used, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		s.ID, s.AccountID, s.PlanID, s.Status, s.StartAt, s.EndAt,
		s.QuotaUsed, s.QuotaTotal, nullString(s.PaymentID), nullString(s.CouponUsed)).
		Scan(&s.CreatedAt)
}

// GetCurrentByAccount returns the most recent subscription for the
// account, expired or not. Expiry is the caller's read-time concern.
func (r *PostgresSubscriptionRepository) GetCurrentByAccount(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	s := &subscription.Subscription{}
	var paymentID, couponUsed sql.NullString

	err := r.db.QueryRowContext(ctx, `
        SELECT id, account_id, plan_id, status, start_at, end_at,
               quota_used, quota_total, payment_id, coupon_used, created_at
        FROM subscriptions
        WHERE account_id = $1
        ORDER BY created_at DESC LIMIT 1`, accountID).
		Scan(&s.ID, &s.AccountID, &s.PlanID, &s.Status, &s.StartAt, &s.EndAt,
			&s.QuotaUsed, &s.QuotaTotal, &paymentID, &couponUsed, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	s.PaymentID = paymentID.String
	s.CouponUsed = couponUsed.String
	return s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
