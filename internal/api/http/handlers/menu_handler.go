package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kiosk-service/internal/api/dto"
	"github.com/spec-kit/kiosk-service/internal/service"
)

// MenuHandler exposes the kiosk client menu category endpoints.
type MenuHandler struct {
	reference *service.ReferenceService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(referenceService *service.ReferenceService) *MenuHandler {
	return &MenuHandler{reference: referenceService}
}

// Create handles POST /menu/add. The category name may arrive as the
// `category` query parameter or in a JSON body.
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	name := c.Query("category")
	if name == "" {
		var req dto.MenuCategoryCreateRequest
		if err := c.BodyParser(&req); err == nil {
			name = req.CategoryName
		}
	}
	if name == "" {
		return fiber.NewError(http.StatusBadRequest, "category required")
	}

	category, err := h.reference.CreateMenuCategory(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMenuCategoryResponse(category)})
}

// List handles GET /menu/categories.
func (h *MenuHandler) List(c *fiber.Ctx) error {
	categories, err := h.reference.ListMenuCategories(c.UserContext())
	if err != nil {
		return err
	}

	result := make([]dto.MenuCategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, dto.NewMenuCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}
