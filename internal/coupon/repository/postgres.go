package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"optihub/internal/coupon"
)

type PostgresUsageRepository struct {
	db *sql.DB
}

func NewPostgresUsageRepository(db *sql.DB) *PostgresUsageRepository {
	return &PostgresUsageRepository{db: db}
}

// Insert appends a usage row. A unique violation on the once-only
// indexes is mapped to the matching coupon sentinel so callers can
// tell a lost race (and which axis lost it) apart from any other
// write failure.
func (r *PostgresUsageRepository) Insert(ctx context.Context, u *coupon.UsageRecord) error {
	query := `
        INSERT INTO coupon_usages (network_origin, account_id, coupon_code, once_only, used_at)
        VALUES ($1, $2, $3, $4, NOW()) RETURNING id, used_at`

	err := r.db.QueryRowContext(ctx, query,
		u.NetworkOrigin, u.AccountID, nullString(u.CouponCode), u.OnceOnly).
		Scan(&u.ID, &u.UsedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "coupon_usages_origin_code_once" {
				return coupon.ErrUsageExistsNetwork
			}
			return coupon.ErrUsageExists
		}
		return err
	}
	return nil
}

func (r *PostgresUsageRepository) HasAccountUsed(ctx context.Context, accountID, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM coupon_usages WHERE account_id = $1 AND coupon_code = $2)`
	err := r.db.QueryRowContext(ctx, query, accountID, code).Scan(&exists)
	return exists, err
}

func (r *PostgresUsageRepository) HasOriginUsed(ctx context.Context, origin, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM coupon_usages WHERE network_origin = $1 AND coupon_code = $2)`
	err := r.db.QueryRowContext(ctx, query, origin, code).Scan(&exists)
	return exists, err
}

func (r *PostgresUsageRepository) DistinctAccountsForOrigin(ctx context.Context, origin string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT account_id FROM coupon_usages WHERE network_origin = $1`, origin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		accounts = append(accounts, id)
	}

	return accounts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
