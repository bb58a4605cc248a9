package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kiosk-service/internal/api/dto"
	"github.com/spec-kit/kiosk-service/internal/service"
)

// NationalitiesHandler exposes the nationality reference endpoints.
type NationalitiesHandler struct {
	reference *service.ReferenceService
}

// NewNationalitiesHandler constructs handler.
func NewNationalitiesHandler(referenceService *service.ReferenceService) *NationalitiesHandler {
	return &NationalitiesHandler{reference: referenceService}
}

// Create handles POST /nationalities.
func (h *NationalitiesHandler) Create(c *fiber.Ctx) error {
	var req dto.NationalityCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	nationality, err := h.reference.CreateNationality(c.UserContext(), req.Nationality)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewNationalityResponse(nationality)})
}

// List handles GET /nationalities.
func (h *NationalitiesHandler) List(c *fiber.Ctx) error {
	nationalities, err := h.reference.ListNationalities(c.UserContext())
	if err != nil {
		return err
	}

	result := make([]dto.NationalityResponse, 0, len(nationalities))
	for i := range nationalities {
		result = append(result, dto.NewNationalityResponse(&nationalities[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Update handles PUT /nationalities/:id.
func (h *NationalitiesHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid nationality id")
	}

	var req dto.NationalityCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	nationality, err := h.reference.UpdateNationality(c.UserContext(), id, req.Nationality)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNationalityResponse(nationality)})
}

// Delete handles DELETE /nationalities/:id.
func (h *NationalitiesHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid nationality id")
	}

	if err := h.reference.DeleteNationality(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"detail": "nationality " + c.Params("id") + " deleted"}})
}
