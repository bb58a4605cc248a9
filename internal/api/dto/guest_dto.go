package dto

import (
	"time"

	"github.com/spec-kit/kiosk-service/internal/domain"
)

// GuestCreateRequest payload shared by the walk-in and booked intake
// paths.
type GuestCreateRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email"`
	Nationality int64   `json:"nationality"`
}

// GuestStatusRequest body fallback for the status update endpoint; the
// query parameter takes precedence.
type GuestStatusRequest struct {
	Status string `json:"status"`
}

// GuestResponse serialization of a guest record.
type GuestResponse struct {
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Email         *string            `json:"email"`
	NationalityID int64              `json:"nationality_id"`
	Status        domain.GuestStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// NewGuestResponse maps a domain guest.
func NewGuestResponse(guest *domain.Guest) GuestResponse {
	return GuestResponse{
		Name:          guest.Name,
		Phone:         guest.Phone,
		Email:         guest.Email,
		NationalityID: guest.NationalityID,
		Status:        guest.Status,
		CreatedAt:     guest.CreatedAt,
	}
}

// NewGuestResponses maps a slice of domain guests.
func NewGuestResponses(guests []domain.Guest) []GuestResponse {
	result := make([]GuestResponse, 0, len(guests))
	for i := range guests {
		result = append(result, NewGuestResponse(&guests[i]))
	}
	return result
}
