package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store against the shared subscriptions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a subscription store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const subscriptionColumns = `tenant_id, plan_id, status, trial_ends_at, cancelled_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var sub Subscription
	err := row.Scan(&sub.TenantID, &sub.PlanID, &sub.Status, &sub.TrialEndsAt, &sub.CancelledAt, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	return scanSubscription(s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1`, tenantID))
}

func (s *PostgresStore) Create(ctx context.Context, sub *Subscription) error {
	if !sub.Status.Valid() {
		return ErrInvalidStatus
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (tenant_id, plan_id, status, trial_ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		sub.TenantID, sub.PlanID, sub.Status, sub.TrialEndsAt, sub.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSubscriptionExists
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, tenantID uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE subscriptions SET status = $2, updated_at = now() WHERE tenant_id = $1`,
		tenantID, status)
	if err != nil {
		return fmt.Errorf("set subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (s *PostgresStore) Cancel(ctx context.Context, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE subscriptions
		 SET status = $2, cancelled_at = now(), updated_at = now()
		 WHERE tenant_id = $1`,
		tenantID, StatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
