package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kiosk-service/internal/domain"
)

// AdminRepository defines persistence access for staff accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByLogin(ctx context.Context, login string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `INSERT INTO admins (login, password_hash) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, admin.Login, admin.PasswordHash)
	return mapConstraintError(err)
}

func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*domain.Admin, error) {
	const query = `SELECT login, password_hash FROM admins WHERE login=$1`

	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, login).Scan(&admin.Login, &admin.PasswordHash); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	const query = `SELECT login, password_hash FROM admins ORDER BY login`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(&admin.Login, &admin.PasswordHash); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}
