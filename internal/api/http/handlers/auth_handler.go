package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kiosk-service/internal/api/dto"
	"github.com/spec-kit/kiosk-service/internal/auth"
	"github.com/spec-kit/kiosk-service/internal/service"
)

// AuthHandler exposes the admin authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /auth/token, exchanging credentials for a bearer
// token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	admin, token, exp, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   exp,
			Admin:       dto.AdminResponse{Username: admin.Login},
		},
	})
}

// Me handles GET /auth/admins/me and returns the caller identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	admin, ok := auth.AdminFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{
		"data": dto.AdminResponse{Username: admin.Login},
	})
}

// Register handles POST /auth/admins.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.AdminCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Login == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "login and password required")
	}

	admin, err := h.auth.CreateAdmin(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AdminResponse{Username: admin.Login},
	})
}

// List handles GET /auth/admins, returning logins only.
func (h *AuthHandler) List(c *fiber.Ctx) error {
	admins, err := h.auth.ListAdmins(c.UserContext())
	if err != nil {
		return err
	}

	result := make([]dto.AdminResponse, 0, len(admins))
	for _, admin := range admins {
		result = append(result, dto.AdminResponse{Username: admin.Login})
	}
	return c.JSON(fiber.Map{"data": result})
}
