package alerts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL-backed alert store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new alert repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new alert and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, alert Alert) (Alert, error) {
	if alert.Status == "" {
		alert.Status = StatusActive
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO alerts (symbol, price_level, condition, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		alert.Symbol, alert.PriceLevel, alert.Condition, alert.Status, alert.CreatedAt,
	).Scan(&alert.ID)
	if err != nil {
		return Alert{}, err
	}

	return alert, nil
}

// List retrieves alerts with the given status, or all when status is empty.
func (r *Repository) List(ctx context.Context, status Status) ([]Alert, error) {
	query := `
		SELECT id, symbol, price_level, condition, status, created_at, COALESCE(triggered_at, 'epoch'::timestamptz)
		FROM alerts
		WHERE ($1 = '' OR status = $1)
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]Alert, 0)
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Symbol, &a.PriceLevel, &a.Condition, &a.Status, &a.CreatedAt, &a.TriggeredAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Delete removes an alert by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkTriggered flips an alert to triggered.
func (r *Repository) MarkTriggered(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE alerts
		SET status = $1, triggered_at = $2
		WHERE id = $3
	`

	tag, err := r.pool.Exec(ctx, query, StatusTriggered, at, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
