package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kiosk-service/internal/domain"
)

// MenuCategoryRepository defines persistence access for menu
// categories shown on the kiosk client.
type MenuCategoryRepository interface {
	Create(ctx context.Context, category *domain.MenuCategory) error
	List(ctx context.Context) ([]domain.MenuCategory, error)
}

type menuCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewMenuCategoryRepository returns a Postgres-backed implementation.
func NewMenuCategoryRepository(pool *pgxpool.Pool) MenuCategoryRepository {
	return &menuCategoryRepository{pool: pool}
}

func (r *menuCategoryRepository) Create(ctx context.Context, category *domain.MenuCategory) error {
	const query = `INSERT INTO menu_categories (category_name) VALUES ($1) RETURNING id`

	err := r.pool.QueryRow(ctx, query, category.Name).Scan(&category.ID)
	return mapConstraintError(err)
}

func (r *menuCategoryRepository) List(ctx context.Context) ([]domain.MenuCategory, error) {
	const query = `SELECT id, category_name FROM menu_categories ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MenuCategory
	for rows.Next() {
		var category domain.MenuCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
