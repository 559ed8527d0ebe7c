package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahatul-dev/subbazar/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginOrRegister handles POST /v1/auth/login.
// The Firebase ID token comes in the Authorization header; the response
// carries the app JWT used for everything else.
func (h *AuthHandler) LoginOrRegister(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing Authorization header",
		})
	}

	token := authHeader
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	resp, err := h.authService.LoginOrRegister(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"token":       resp.Token,
		"is_new_user": resp.IsNewUser,
		"user": fiber.Map{
			"id":    resp.User.ID,
			"name":  resp.User.Name,
			"email": resp.User.Email,
			"roles": resp.User.Roles,
		},
	})
}
