package dto

import "github.com/spec-kit/kiosk-service/internal/domain"

// NationalityCreateRequest payload for create and update.
type NationalityCreateRequest struct {
	Nationality string `json:"nationality"`
}

// NationalityResponse serialization of a nationality row.
type NationalityResponse struct {
	ID          int64  `json:"id"`
	Nationality string `json:"nationality"`
}

// NewNationalityResponse maps a domain nationality.
func NewNationalityResponse(nationality *domain.Nationality) NationalityResponse {
	return NationalityResponse{ID: nationality.ID, Nationality: nationality.Name}
}

// MenuCategoryCreateRequest payload for the menu category endpoint.
type MenuCategoryCreateRequest struct {
	CategoryName string `json:"category_name"`
}

// MenuCategoryResponse serialization of a menu category.
type MenuCategoryResponse struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"category_name"`
}

// NewMenuCategoryResponse maps a domain menu category.
func NewMenuCategoryResponse(category *domain.MenuCategory) MenuCategoryResponse {
	return MenuCategoryResponse{ID: category.ID, CategoryName: category.Name}
}
