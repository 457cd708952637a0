package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/statement_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxCategoryRepository implements portsrepo.CategoryReader
var _ portsrepo.CategoryReader = (*PgxCategoryRepository)(nil)

// ListCategories retrieves the system categories (user_id NULL) plus the
// user's own.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]portsrepo.Category, error) {
	query := `
		SELECT category_id, name
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.Category, error) {
		var c portsrepo.Category
		err := row.Scan(&c.CategoryID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}
