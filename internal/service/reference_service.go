package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/repository"
	"github.com/spec-kit/kiosk-service/pkg/util"
)

// ReferenceService manages the nationality list and the kiosk menu
// categories.
type ReferenceService struct {
	nationalities repository.NationalityRepository
	categories    repository.MenuCategoryRepository
}

// ReferenceDependencies bundles repositories for the reference service.
type ReferenceDependencies struct {
	NationalityRepo  repository.NationalityRepository
	MenuCategoryRepo repository.MenuCategoryRepository
}

// NewReferenceService constructs the service.
func NewReferenceService(deps ReferenceDependencies) *ReferenceService {
	return &ReferenceService{
		nationalities: deps.NationalityRepo,
		categories:    deps.MenuCategoryRepo,
	}
}

// CreateNationality adds a nationality with a unique display name.
func (s *ReferenceService) CreateNationality(ctx context.Context, name string) (*domain.Nationality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("nationality name required", nil)
	}

	nationality := &domain.Nationality{Name: name}
	if err := s.nationalities.Create(ctx, nationality); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("nationality already exists", map[string]any{"nationality": name})
		}
		return nil, err
	}
	return nationality, nil
}

// ListNationalities returns the full reference list.
func (s *ReferenceService) ListNationalities(ctx context.Context) ([]domain.Nationality, error) {
	nationalities, err := s.nationalities.List(ctx)
	if err != nil {
		return nil, err
	}
	if nationalities == nil {
		nationalities = []domain.Nationality{}
	}
	return nationalities, nil
}

// UpdateNationality renames a nationality.
func (s *ReferenceService) UpdateNationality(ctx context.Context, id int64, name string) (*domain.Nationality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("nationality name required", nil)
	}

	nationality := &domain.Nationality{ID: id, Name: name}
	if err := s.nationalities.Update(ctx, nationality); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, util.NewNotFound("nationality", map[string]any{"id": id})
		case errors.Is(err, repository.ErrDuplicate):
			return nil, util.NewConflict("nationality already exists", map[string]any{"nationality": name})
		}
		return nil, err
	}
	return nationality, nil
}

// DeleteNationality removes a nationality unless guests reference it.
func (s *ReferenceService) DeleteNationality(ctx context.Context, id int64) error {
	if err := s.nationalities.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return util.NewNotFound("nationality", map[string]any{"id": id})
		case errors.Is(err, repository.ErrReferenced):
			return util.NewConflict("cannot delete nationality with associated guests", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// CreateMenuCategory adds a menu category with a unique name.
func (s *ReferenceService) CreateMenuCategory(ctx context.Context, name string) (*domain.MenuCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("category name required", nil)
	}

	category := &domain.MenuCategory{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("this category already exists", map[string]any{"category_name": name})
		}
		return nil, err
	}
	return category, nil
}

// ListMenuCategories returns all menu categories.
func (s *ReferenceService) ListMenuCategories(ctx context.Context) ([]domain.MenuCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.MenuCategory{}
	}
	return categories, nil
}
