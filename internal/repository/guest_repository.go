package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kiosk-service/internal/domain"
)

// GuestFilter captures listing and export parameters. A nil Status or
// Search leaves the corresponding predicate out entirely.
type GuestFilter struct {
	Status *domain.GuestStatus
	Search *string
	Limit  int
	Offset int
}

// GuestRepository encapsulates guest persistence.
type GuestRepository interface {
	Create(ctx context.Context, guest *domain.Guest) error
	GetByPhone(ctx context.Context, phone string) (*domain.Guest, error)
	List(ctx context.Context, filter GuestFilter) ([]domain.Guest, error)
	UpdateStatus(ctx context.Context, phone string, status domain.GuestStatus) error
	Delete(ctx context.Context, phone string) error
	// ForEach streams every guest matching the filter through fn in
	// insertion order without materializing the full result set.
	ForEach(ctx context.Context, filter GuestFilter, fn func(domain.Guest) error) error
	HasNationality(ctx context.Context, nationalityID int64) (bool, error)
}

type guestRepository struct {
	pool *pgxpool.Pool
}

// NewGuestRepository returns a Postgres-backed implementation.
func NewGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &guestRepository{pool: pool}
}

func (r *guestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	const query = `
        INSERT INTO guests (phone, name, email, nationality_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		guest.Phone,
		guest.Name,
		guest.Email,
		guest.NationalityID,
		guest.Status,
		guest.CreatedAt,
	)
	return mapConstraintError(err)
}

func (r *guestRepository) GetByPhone(ctx context.Context, phone string) (*domain.Guest, error) {
	const query = `
        SELECT phone, name, email, nationality_id, status, created_at
        FROM guests WHERE phone=$1`

	var guest domain.Guest
	if err := r.pool.QueryRow(ctx, query, phone).Scan(
		&guest.Phone,
		&guest.Name,
		&guest.Email,
		&guest.NationalityID,
		&guest.Status,
		&guest.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) UpdateStatus(ctx context.Context, phone string, status domain.GuestStatus) error {
	const query = `UPDATE guests SET status=$1 WHERE phone=$2`

	cmd, err := r.pool.Exec(ctx, query, status, phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *guestRepository) Delete(ctx context.Context, phone string) error {
	const query = `DELETE FROM guests WHERE phone=$1`

	cmd, err := r.pool.Exec(ctx, query, phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *guestRepository) List(ctx context.Context, filter GuestFilter) ([]domain.Guest, error) {
	query, args := buildGuestQuery(filter, true)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGuests(rows)
}

func (r *guestRepository) ForEach(ctx context.Context, filter GuestFilter, fn func(domain.Guest) error) error {
	query, args := buildGuestQuery(filter, false)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return err
		}
		if err := fn(guest); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *guestRepository) HasNationality(ctx context.Context, nationalityID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM guests WHERE nationality_id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, nationalityID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// buildGuestQuery assembles the shared SELECT for listing and export.
// created_at/phone ordering keeps pagination stable across pages of a
// fixed snapshot.
func buildGuestQuery(filter GuestFilter, paginate bool) (string, []any) {
	base := `SELECT phone, name, email, nationality_id, status, created_at FROM guests`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %[1]s OR LOWER(phone) LIKE %[1]s OR LOWER(COALESCE(email, '')) LIKE %[1]s OR LOWER(created_at::text) LIKE %[1]s)",
			placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at, phone`, base, strings.Join(clauses, " AND "))
	if paginate {
		query = fmt.Sprintf(`%s LIMIT %d OFFSET %d`, query, filter.Limit, filter.Offset)
	}
	return query, args
}

func scanGuest(rows pgx.Rows) (domain.Guest, error) {
	var guest domain.Guest
	err := rows.Scan(
		&guest.Phone,
		&guest.Name,
		&guest.Email,
		&guest.NationalityID,
		&guest.Status,
		&guest.CreatedAt,
	)
	return guest, err
}

func scanGuests(rows pgx.Rows) ([]domain.Guest, error) {
	var result []domain.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, guest)
	}
	return result, rows.Err()
}
