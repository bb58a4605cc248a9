package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/repository"
)

// fakeGuestRepo keeps guests in insertion order, mirroring the
// ordering guarantee of the Postgres implementation.
type fakeGuestRepo struct {
	guests []domain.Guest
}

func (r *fakeGuestRepo) Create(_ context.Context, guest *domain.Guest) error {
	for _, existing := range r.guests {
		if existing.Phone == guest.Phone {
			return repository.ErrDuplicate
		}
	}
	r.guests = append(r.guests, *guest)
	return nil
}

func (r *fakeGuestRepo) GetByPhone(_ context.Context, phone string) (*domain.Guest, error) {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			guest := r.guests[i]
			return &guest, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeGuestRepo) List(_ context.Context, filter repository.GuestFilter) ([]domain.Guest, error) {
	matched := r.match(filter)
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *fakeGuestRepo) UpdateStatus(_ context.Context, phone string, status domain.GuestStatus) error {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			r.guests[i].Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeGuestRepo) Delete(_ context.Context, phone string) error {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			r.guests = append(r.guests[:i], r.guests[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeGuestRepo) ForEach(_ context.Context, filter repository.GuestFilter, fn func(domain.Guest) error) error {
	for _, guest := range r.match(filter) {
		if err := fn(guest); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeGuestRepo) HasNationality(_ context.Context, nationalityID int64) (bool, error) {
	for _, guest := range r.guests {
		if guest.NationalityID == nationalityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGuestRepo) match(filter repository.GuestFilter) []domain.Guest {
	var matched []domain.Guest
	for _, guest := range r.guests {
		if filter.Status != nil && guest.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && !guestMatchesSearch(guest, *filter.Search) {
			continue
		}
		matched = append(matched, guest)
	}
	return matched
}

func guestMatchesSearch(guest domain.Guest, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	email := ""
	if guest.Email != nil {
		email = *guest.Email
	}
	for _, field := range []string{guest.Name, guest.Phone, email, guest.CreatedAt.String()} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// fakeNationalityRepo backs reference-data tests. referencedIDs marks
// nationalities that guests still point at.
type fakeNationalityRepo struct {
	nationalities []domain.Nationality
	referencedIDs map[int64]bool
	nextID        int64
}

func newFakeNationalityRepo(names ...string) *fakeNationalityRepo {
	repo := &fakeNationalityRepo{referencedIDs: map[int64]bool{}}
	for _, name := range names {
		_ = repo.Create(context.Background(), &domain.Nationality{Name: name})
	}
	return repo
}

func (r *fakeNationalityRepo) Create(_ context.Context, nationality *domain.Nationality) error {
	for _, existing := range r.nationalities {
		if existing.Name == nationality.Name {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	nationality.ID = r.nextID
	r.nationalities = append(r.nationalities, *nationality)
	return nil
}

func (r *fakeNationalityRepo) GetByID(_ context.Context, id int64) (*domain.Nationality, error) {
	for i := range r.nationalities {
		if r.nationalities[i].ID == id {
			nationality := r.nationalities[i]
			return &nationality, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeNationalityRepo) List(_ context.Context) ([]domain.Nationality, error) {
	return append([]domain.Nationality{}, r.nationalities...), nil
}

func (r *fakeNationalityRepo) Update(_ context.Context, nationality *domain.Nationality) error {
	for i := range r.nationalities {
		if r.nationalities[i].ID != nationality.ID && r.nationalities[i].Name == nationality.Name {
			return repository.ErrDuplicate
		}
	}
	for i := range r.nationalities {
		if r.nationalities[i].ID == nationality.ID {
			r.nationalities[i].Name = nationality.Name
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNationalityRepo) Delete(_ context.Context, id int64) error {
	if r.referencedIDs[id] {
		return repository.ErrReferenced
	}
	for i := range r.nationalities {
		if r.nationalities[i].ID == id {
			r.nationalities = append(r.nationalities[:i], r.nationalities[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// fakeAdminRepo backs auth tests.
type fakeAdminRepo struct {
	admins map[string]domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]domain.Admin{}}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	if _, exists := r.admins[admin.Login]; exists {
		return repository.ErrDuplicate
	}
	r.admins[admin.Login] = *admin
	return nil
}

func (r *fakeAdminRepo) GetByLogin(_ context.Context, login string) (*domain.Admin, error) {
	admin, exists := r.admins[login]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (r *fakeAdminRepo) List(_ context.Context) ([]domain.Admin, error) {
	result := make([]domain.Admin, 0, len(r.admins))
	for _, admin := range r.admins {
		result = append(result, admin)
	}
	return result, nil
}

// fakeMenuCategoryRepo backs menu category tests.
type fakeMenuCategoryRepo struct {
	categories []domain.MenuCategory
	nextID     int64
}

func (r *fakeMenuCategoryRepo) Create(_ context.Context, category *domain.MenuCategory) error {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	category.ID = r.nextID
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeMenuCategoryRepo) List(_ context.Context) ([]domain.MenuCategory, error) {
	return append([]domain.MenuCategory{}, r.categories...), nil
}
