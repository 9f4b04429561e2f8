package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type SubscriptionBulkRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionBulkRepository(pool *pgxpool.Pool) *SubscriptionBulkRepository {
	return &SubscriptionBulkRepository{pool: pool}
}

func (r *SubscriptionBulkRepository) EntityType() string {
	return domain.EntitySubscription
}

func (r *SubscriptionBulkRepository) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	existing, err := queryIDs(ctx, r.pool, "SELECT id::text FROM subscriptions WHERE id::text = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("query existing subscriptions: %w", err)
	}

	return missingIDs(ids, existing), nil
}

func (r *SubscriptionBulkRepository) Protected(ctx context.Context, ids []string) ([]string, error) {
	return nil, nil
}

func (r *SubscriptionBulkRepository) Apply(ctx context.Context, opType, id string) error {
	switch opType {
	case "suspend":
		return r.exec(ctx, "pause subscription",
			"UPDATE subscriptions SET status = 'paused', updated_at = NOW() WHERE id::text = $1", id)
	case "activate":
		return r.exec(ctx, "activate subscription",
			"UPDATE subscriptions SET status = 'active', updated_at = NOW() WHERE id::text = $1", id)
	case "delete":
		return r.exec(ctx, "delete subscription",
			"DELETE FROM subscriptions WHERE id::text = $1", id)
	case "update":
		return r.exec(ctx, "normalize subscription", `
UPDATE subscriptions
SET status = CASE LOWER(status)
      WHEN 'canceled' THEN 'cancelled'
      WHEN 'inactive' THEN 'paused'
      ELSE LOWER(status)
    END,
    updated_at = NOW()
WHERE id::text = $1
`, id)
	default:
		return fmt.Errorf("unsupported subscription operation: %s", opType)
	}
}

func (r *SubscriptionBulkRepository) exec(ctx context.Context, action, query, id string) error {
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return applyError(action, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
