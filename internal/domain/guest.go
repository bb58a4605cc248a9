package domain

import "time"

// GuestStatus enumerates workflow states for a guest record.
type GuestStatus string

const (
	GuestStatusWalkIn    GuestStatus = "walk_in"
	GuestStatusConfirmed GuestStatus = "confirmed"
	GuestStatusBooked    GuestStatus = "booked"
	GuestStatusRejected  GuestStatus = "rejected"
)

// GuestStatuses lists every accepted status value.
var GuestStatuses = []GuestStatus{
	GuestStatusWalkIn,
	GuestStatusConfirmed,
	GuestStatusBooked,
	GuestStatusRejected,
}

// ParseGuestStatus validates a raw status value.
func ParseGuestStatus(raw string) (GuestStatus, bool) {
	for _, status := range GuestStatuses {
		if string(status) == raw {
			return status, true
		}
	}
	return "", false
}

// Guest is the record for a kiosk-registered hotel guest. The phone
// number is the natural primary key; there is no surrogate id.
type Guest struct {
	Phone         string
	Name          string
	Email         *string
	NationalityID int64
	Status        GuestStatus
	CreatedAt     time.Time
}
