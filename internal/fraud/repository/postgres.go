package repository

import (
	"context"
	"database/sql"

	"optihub/internal/fraud"
)

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Insert(ctx context.Context, e *fraud.SecurityEvent) error {
	query := `
        INSERT INTO security_events (account_id, event_type, details, network_origin, risk_score, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		e.AccountID, e.EventType, e.Details, e.NetworkOrigin, e.RiskScore).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *PostgresEventRepository) ListByOrigin(ctx context.Context, origin string) ([]*fraud.SecurityEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, account_id, event_type, details, network_origin, risk_score, created_at
        FROM security_events WHERE network_origin = $1 ORDER BY created_at DESC`, origin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*fraud.SecurityEvent
	for rows.Next() {
		e := &fraud.SecurityEvent{}
		err := rows.Scan(&e.ID, &e.AccountID, &e.EventType, &e.Details, &e.NetworkOrigin, &e.RiskScore, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
