package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type UserBulkRepository struct {
	pool *pgxpool.Pool
}

func NewUserBulkRepository(pool *pgxpool.Pool) *UserBulkRepository {
	return &UserBulkRepository{pool: pool}
}

func (r *UserBulkRepository) EntityType() string {
	return domain.EntityUser
}

func (r *UserBulkRepository) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// Comparing as text keeps malformed ids reading as missing instead
	// of failing the whole query on a uuid parse.
	existing, err := queryIDs(ctx, r.pool, "SELECT id::text FROM users WHERE id::text = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("query existing users: %w", err)
	}

	return missingIDs(ids, existing), nil
}

func (r *UserBulkRepository) Protected(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	protected, err := queryIDs(ctx, r.pool, "SELECT id::text FROM users WHERE id::text = ANY($1) AND role = 'admin'", ids)
	if err != nil {
		return nil, fmt.Errorf("query protected users: %w", err)
	}

	return protected, nil
}

func (r *UserBulkRepository) Apply(ctx context.Context, opType, id string) error {
	switch opType {
	case "suspend":
		return r.execGuarded(ctx, "suspend user",
			"UPDATE users SET status = 'suspended', updated_at = NOW() WHERE id::text = $1 AND role <> 'admin'", id)
	case "activate":
		return r.exec(ctx, "activate user",
			"UPDATE users SET status = 'active', updated_at = NOW() WHERE id::text = $1", id)
	case "delete":
		return r.execGuarded(ctx, "delete user",
			"DELETE FROM users WHERE id::text = $1 AND role <> 'admin'", id)
	case "update":
		return r.exec(ctx, "normalize user",
			"UPDATE users SET name = BTRIM(name), email = LOWER(BTRIM(email)), updated_at = NOW() WHERE id::text = $1", id)
	default:
		return fmt.Errorf("unsupported user operation: %s", opType)
	}
}

func (r *UserBulkRepository) exec(ctx context.Context, action, query, id string) error {
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return applyError(action, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// execGuarded runs destructive statements whose WHERE clause excludes
// admin accounts, then classifies a zero-row result as protected or
// missing.
func (r *UserBulkRepository) execGuarded(ctx context.Context, action, query, id string) error {
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return applyError(action, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var role string
	err = r.pool.QueryRow(ctx, "SELECT role FROM users WHERE id::text = $1", id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return applyError(action, err)
	}
	if role == "admin" {
		return domain.ErrProtectedEntity
	}

	return domain.ErrNotFound
}

func queryIDs(ctx context.Context, pool *pgxpool.Pool, query string, ids []string) ([]string, error) {
	rows, err := pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

func missingIDs(requested, existing []string) []string {
	found := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}

func applyError(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
	}

	return fmt.Errorf("%s: %w", action, err)
}
