package events

import (
	"time"

	"github.com/spec-kit/kiosk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGuestCheckedIn     EventType = "guest_checked_in"
	EventGuestStatusChanged EventType = "guest_status_changed"
	EventGuestDeleted       EventType = "guest_deleted"
	EventGuestsExported     EventType = "guests_exported"
)

// Event represents a domain event emitted by services. Phone is the
// guest key the event refers to; export events leave it empty.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Phone     string      `json:"phone,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GuestCheckedInPayload payload.
type GuestCheckedInPayload struct {
	Name          string             `json:"name"`
	Email         *string            `json:"email,omitempty"`
	NationalityID int64              `json:"nationality_id"`
	Status        domain.GuestStatus `json:"status"`
}

// GuestStatusChangedPayload payload.
type GuestStatusChangedPayload struct {
	OldStatus domain.GuestStatus `json:"old_status"`
	NewStatus domain.GuestStatus `json:"new_status"`
}

// GuestDeletedPayload payload.
type GuestDeletedPayload struct {
	Status domain.GuestStatus `json:"status"`
}

// GuestsExportedPayload payload.
type GuestsExportedPayload struct {
	StatusFilter *domain.GuestStatus `json:"status_filter,omitempty"`
	Rows         int                 `json:"rows"`
}
