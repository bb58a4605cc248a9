package handlers

import (
	"bufio"
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/kiosk-service/internal/api/dto"
	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/service"
)

const (
	defaultListLimit = 100
	exportAttachment = `attachment; filename=guests_export.csv`
	contentTypeCSV   = "text/csv"
	statusQueryParam = "status"
	searchQueryParam = "search"
)

// GuestsHandler exposes guest intake, workflow and export endpoints.
type GuestsHandler struct {
	guests *service.GuestService
	logger *zap.Logger
}

// NewGuestsHandler constructs handler.
func NewGuestsHandler(guestService *service.GuestService, logger *zap.Logger) *GuestsHandler {
	return &GuestsHandler{guests: guestService, logger: logger}
}

// CreateWalkIn handles POST /users/walk-in.
func (h *GuestsHandler) CreateWalkIn(c *fiber.Ctx) error {
	return h.create(c, service.GuestKindWalkIn)
}

// CreateBooked handles POST /users/booked.
func (h *GuestsHandler) CreateBooked(c *fiber.Ctx) error {
	return h.create(c, service.GuestKindBooked)
}

func (h *GuestsHandler) create(c *fiber.Ctx, kind service.GuestKind) error {
	var req dto.GuestCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Phone == "" || req.Nationality == 0 {
		return fiber.NewError(http.StatusBadRequest, "name, phone and nationality required")
	}

	guest, err := h.guests.CreateGuest(c.UserContext(), service.GuestCreateInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		NationalityID: req.Nationality,
		Kind:          kind,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGuestResponse(guest)})
}

// List handles GET /users with status, search and pagination params.
func (h *GuestsHandler) List(c *fiber.Ctx) error {
	query := service.GuestListQuery{Skip: 0, Limit: defaultListLimit}

	if raw := c.Query(statusQueryParam); raw != "" {
		status, ok := domain.ParseGuestStatus(raw)
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "invalid status value")
		}
		query.Status = &status
	}
	if raw := c.Query(searchQueryParam); raw != "" {
		query.Search = &raw
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid skip value")
		}
		query.Skip = skip
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid limit value")
		}
		query.Limit = limit
	}

	guests, err := h.guests.ListGuests(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGuestResponses(guests)})
}

// Get handles GET /users/:phone.
func (h *GuestsHandler) Get(c *fiber.Ctx) error {
	guest, err := h.guests.GetGuest(c.UserContext(), c.Params("phone"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGuestResponse(guest)})
}

// UpdateStatus handles PUT /users/:phone/status. The new status comes
// from the query parameter, falling back to a JSON body.
func (h *GuestsHandler) UpdateStatus(c *fiber.Ctx) error {
	status := c.Query(statusQueryParam)
	if status == "" {
		var req dto.GuestStatusRequest
		if err := c.BodyParser(&req); err == nil {
			status = req.Status
		}
	}
	if status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	guest, err := h.guests.UpdateStatus(c.UserContext(), c.Params("phone"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGuestResponse(guest)})
}

// Delete handles DELETE /users/:phone.
func (h *GuestsHandler) Delete(c *fiber.Ctx) error {
	phone := c.Params("phone")
	if err := h.guests.DeleteGuest(c.UserContext(), phone); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"detail": "guest " + phone + " deleted"}})
}

// Export handles GET /users/export, streaming matching guests as CSV.
// Rows are written straight to the response body, never buffered in
// full.
func (h *GuestsHandler) Export(c *fiber.Ctx) error {
	var status *domain.GuestStatus
	if raw := c.Query(statusQueryParam); raw != "" {
		parsed, ok := domain.ParseGuestStatus(raw)
		if !ok {
			return fiber.NewError(http.StatusBadRequest, "invalid status value")
		}
		status = &parsed
	}

	c.Set(fiber.HeaderContentType, contentTypeCSV)
	c.Set(fiber.HeaderContentDisposition, exportAttachment)

	// The stream writer runs after this handler returns, so it must
	// not touch the fiber context again.
	guests := h.guests
	logger := h.logger
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := guests.ExportCSV(context.Background(), w, status); err != nil {
			logger.Error("csv export aborted", zap.Error(err))
		}
	}))
	return nil
}
