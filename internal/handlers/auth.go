package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/config"
	"github.com/reviewtracker/backend/internal/middleware"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg          *config.Config
	passwordHash []byte
}

// NewAuthHandler hashes the configured password once at startup.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	h := &AuthHandler{cfg: cfg}
	if cfg.AuthPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AuthPassword), bcrypt.DefaultCost)
		if err == nil {
			h.passwordHash = hash
		}
	}
	return h
}

// Login exchanges the owner password for a JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.passwordHash == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Authentication is not configured",
		})
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "password is required",
		})
	}

	if bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid password",
		})
	}

	token, err := middleware.GenerateToken(h.cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"token": token, "expiresInHours": h.cfg.JWTExpireHours},
	})
}
