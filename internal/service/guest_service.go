package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/events"
	"github.com/spec-kit/kiosk-service/internal/repository"
	"github.com/spec-kit/kiosk-service/pkg/util"
)

// phonePattern accepts international numbers: optional +, first digit
// 1-9, 2 to 15 digits total.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

const (
	listLimitMax       = 1000
	exportTimeFormat   = "2006-01-02 15:04:05"
	guestResourceLabel = "guest"
)

// GuestKind selects the intake path and with it the initial status.
type GuestKind string

const (
	GuestKindWalkIn GuestKind = "walk_in"
	GuestKindBooked GuestKind = "booked"
)

func (k GuestKind) initialStatus() domain.GuestStatus {
	if k == GuestKindBooked {
		return domain.GuestStatusConfirmed
	}
	return domain.GuestStatusWalkIn
}

// GuestService coordinates guest intake, the status workflow, search
// and CSV export.
type GuestService struct {
	guests        repository.GuestRepository
	nationalities repository.NationalityRepository
	dispatcher    events.Dispatcher
}

// GuestDependencies bundles repositories for the guest service.
type GuestDependencies struct {
	GuestRepo       repository.GuestRepository
	NationalityRepo repository.NationalityRepository
	Dispatcher      events.Dispatcher
}

// NewGuestService constructs the service.
func NewGuestService(deps GuestDependencies) *GuestService {
	return &GuestService{
		guests:        deps.GuestRepo,
		nationalities: deps.NationalityRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// GuestCreateInput describes the intake payload.
type GuestCreateInput struct {
	Name          string
	Phone         string
	Email         *string
	NationalityID int64
	Kind          GuestKind
}

// GuestListQuery describes listing filters and pagination.
type GuestListQuery struct {
	Status *domain.GuestStatus
	Search *string
	Skip   int
	Limit  int
}

// CreateGuest validates and persists a new guest. Name is trimmed,
// email lowercased, and created_at set to current server time.
func (s *GuestService) CreateGuest(ctx context.Context, input GuestCreateInput) (*domain.Guest, error) {
	if !phonePattern.MatchString(input.Phone) {
		return nil, util.NewValidationError("invalid phone number format", map[string]any{"phone": input.Phone})
	}

	var email *string
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		normalized := strings.ToLower(strings.TrimSpace(*input.Email))
		// Only a bare address is acceptable; RFC 5322 display-name
		// forms like `Name <addr>` parse but are not valid emails.
		addr, err := mail.ParseAddress(normalized)
		if err != nil || addr.Address != normalized {
			return nil, util.NewValidationError("invalid email address", map[string]any{"email": *input.Email})
		}
		email = &normalized
	}

	if _, err := s.nationalities.GetByID(ctx, input.NationalityID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewValidationError("nationality does not exist", map[string]any{"nationality_id": input.NationalityID})
		}
		return nil, err
	}

	guest := &domain.Guest{
		Phone:         input.Phone,
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		NationalityID: input.NationalityID,
		Status:        input.Kind.initialStatus(),
		CreatedAt:     time.Now(),
	}

	if err := s.guests.Create(ctx, guest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("guest with this phone already exists", map[string]any{"phone": guest.Phone})
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventGuestCheckedIn,
		Phone: guest.Phone,
		Payload: events.GuestCheckedInPayload{
			Name:          guest.Name,
			Email:         guest.Email,
			NationalityID: guest.NationalityID,
			Status:        guest.Status,
		},
	})
	return guest, nil
}

// ListGuests returns a page of guests. Pagination bounds are rejected,
// never clamped.
func (s *GuestService) ListGuests(ctx context.Context, query GuestListQuery) ([]domain.Guest, error) {
	if query.Skip < 0 {
		return nil, util.NewValidationError("skip must be non-negative", map[string]any{"skip": query.Skip})
	}
	if query.Limit < 1 || query.Limit > listLimitMax {
		return nil, util.NewValidationError("limit must be between 1 and "+strconv.Itoa(listLimitMax), map[string]any{"limit": query.Limit})
	}

	guests, err := s.guests.List(ctx, repository.GuestFilter{
		Status: query.Status,
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Skip,
	})
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []domain.Guest{}
	}
	return guests, nil
}

// GetGuest fetches one guest by phone.
func (s *GuestService) GetGuest(ctx context.Context, phone string) (*domain.Guest, error) {
	guest, err := s.guests.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound(guestResourceLabel, map[string]any{"phone": phone})
		}
		return nil, err
	}
	return guest, nil
}

// UpdateStatus moves a guest to the given status. Any prior status is
// acceptable; only the new value itself is checked against the enum.
func (s *GuestService) UpdateStatus(ctx context.Context, phone, rawStatus string) (*domain.Guest, error) {
	status, ok := domain.ParseGuestStatus(rawStatus)
	if !ok {
		return nil, util.NewValidationError("invalid status value", map[string]any{"status": rawStatus})
	}

	guest, err := s.GetGuest(ctx, phone)
	if err != nil {
		return nil, err
	}
	oldStatus := guest.Status

	if err := s.guests.UpdateStatus(ctx, phone, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound(guestResourceLabel, map[string]any{"phone": phone})
		}
		return nil, err
	}
	guest.Status = status

	s.publishEvent(ctx, events.Event{
		Type:  events.EventGuestStatusChanged,
		Phone: phone,
		Payload: events.GuestStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return guest, nil
}

// DeleteGuest removes a guest record.
func (s *GuestService) DeleteGuest(ctx context.Context, phone string) error {
	guest, err := s.GetGuest(ctx, phone)
	if err != nil {
		return err
	}

	if err := s.guests.Delete(ctx, phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound(guestResourceLabel, map[string]any{"phone": phone})
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventGuestDeleted,
		Phone:   phone,
		Payload: events.GuestDeletedPayload{Status: guest.Status},
	})
	return nil
}

// ExportCSV streams matching guests as CSV rows to w. The header row
// is always written, even for an empty result. Phone is the canonical
// key, so no surrogate id column is emitted.
func (s *GuestService) ExportCSV(ctx context.Context, w io.Writer, status *domain.GuestStatus) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Name", "Phone", "Email", "Nationality ID", "Status", "Created At"}); err != nil {
		return err
	}

	rows := 0
	err := s.guests.ForEach(ctx, repository.GuestFilter{Status: status}, func(guest domain.Guest) error {
		email := ""
		if guest.Email != nil {
			email = *guest.Email
		}
		rows++
		return writer.Write([]string{
			guest.Name,
			guest.Phone,
			email,
			strconv.FormatInt(guest.NationalityID, 10),
			string(guest.Status),
			guest.CreatedAt.Format(exportTimeFormat),
		})
	})
	if err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventGuestsExported,
		Payload: events.GuestsExportedPayload{StatusFilter: status, Rows: rows},
	})
	return nil
}

func (s *GuestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
