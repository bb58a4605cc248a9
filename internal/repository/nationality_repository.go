package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/persistence"
)

// NationalityRepository defines persistence access for the nationality
// reference list.
type NationalityRepository interface {
	Create(ctx context.Context, nationality *domain.Nationality) error
	GetByID(ctx context.Context, id int64) (*domain.Nationality, error)
	List(ctx context.Context) ([]domain.Nationality, error)
	Update(ctx context.Context, nationality *domain.Nationality) error
	Delete(ctx context.Context, id int64) error
}

type nationalityRepository struct {
	pool *pgxpool.Pool
}

// NewNationalityRepository returns a Postgres-backed implementation.
func NewNationalityRepository(pool *pgxpool.Pool) NationalityRepository {
	return &nationalityRepository{pool: pool}
}

func (r *nationalityRepository) Create(ctx context.Context, nationality *domain.Nationality) error {
	const query = `INSERT INTO nationality (nationality) VALUES ($1) RETURNING id`

	err := r.pool.QueryRow(ctx, query, nationality.Name).Scan(&nationality.ID)
	return mapConstraintError(err)
}

func (r *nationalityRepository) GetByID(ctx context.Context, id int64) (*domain.Nationality, error) {
	const query = `SELECT id, nationality FROM nationality WHERE id=$1`

	var nationality domain.Nationality
	if err := r.pool.QueryRow(ctx, query, id).Scan(&nationality.ID, &nationality.Name); err != nil {
		return nil, err
	}
	return &nationality, nil
}

func (r *nationalityRepository) List(ctx context.Context) ([]domain.Nationality, error) {
	const query = `SELECT id, nationality FROM nationality ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Nationality
	for rows.Next() {
		var nationality domain.Nationality
		if err := rows.Scan(&nationality.ID, &nationality.Name); err != nil {
			return nil, err
		}
		result = append(result, nationality)
	}
	return result, rows.Err()
}

func (r *nationalityRepository) Update(ctx context.Context, nationality *domain.Nationality) error {
	const query = `UPDATE nationality SET nationality=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, nationality.Name, nationality.ID)
	if err != nil {
		return mapConstraintError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a nationality unless guests still reference it. The
// reference check and the delete share one transaction; the FK
// restriction on guests.nationality_id backs the check up should a
// guest land in between.
func (r *nationalityRepository) Delete(ctx context.Context, id int64) error {
	return persistence.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var referenced bool
		const checkQuery = `SELECT EXISTS (SELECT 1 FROM guests WHERE nationality_id=$1)`
		if err := tx.QueryRow(ctx, checkQuery, id).Scan(&referenced); err != nil {
			return err
		}
		if referenced {
			return ErrReferenced
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM nationality WHERE id=$1`, id)
		if err != nil {
			return mapConstraintError(err)
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}
