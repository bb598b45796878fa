package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
)

type LookupHandler struct{}

func NewLookupHandler() *LookupHandler {
	return &LookupHandler{}
}

// ListPlatforms returns all platforms, cached in Redis.
func (h *LookupHandler) ListPlatforms(c *fiber.Ctx) error {
	var cached []models.Platform
	if err := database.CacheGet(database.CacheKeyPlatforms, &cached); err == nil {
		return c.JSON(fiber.Map{"success": true, "data": cached, "cached": true})
	}

	var platforms []models.Platform
	if err := database.DB.Order("name asc").Find(&platforms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch platforms",
		})
	}

	database.CacheSet(database.CacheKeyPlatforms, platforms, database.CacheTTLLookups)

	return c.JSON(fiber.Map{"success": true, "data": platforms})
}

// CreatePlatform adds a platform.
func (h *LookupHandler) CreatePlatform(c *fiber.Ctx) error {
	var platform models.Platform
	if err := c.BodyParser(&platform); err != nil || strings.TrimSpace(platform.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "name is required",
		})
	}
	platform.ID = 0
	platform.Name = strings.TrimSpace(platform.Name)

	if err := database.DB.Create(&platform).Error; err != nil {
		log.Printf("ERROR: Failed to create platform: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create platform (duplicate name?)",
		})
	}

	database.InvalidateLookupCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": platform})
}

// DeletePlatform removes a platform and detaches it from reviews.
func (h *LookupHandler) DeletePlatform(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid platform ID"})
	}

	var platform models.Platform
	if err := database.DB.First(&platform, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Platform not found"})
	}

	database.DB.Model(&models.Review{}).Where("platform_id = ?", id).Update("platform_id", nil)
	if err := database.DB.Delete(&platform).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete platform",
		})
	}

	database.InvalidateLookupCache()
	database.InvalidateDashboardCache()
	return c.JSON(fiber.Map{"success": true, "message": "Platform deleted"})
}

// ListMediators returns all mediators with WhatsApp links, cached in Redis.
func (h *LookupHandler) ListMediators(c *fiber.Ctx) error {
	var cached []mediatorResponse
	if err := database.CacheGet(database.CacheKeyMediators, &cached); err == nil {
		return c.JSON(fiber.Map{"success": true, "data": cached, "cached": true})
	}

	var mediators []models.Mediator
	if err := database.DB.Order("name asc").Find(&mediators).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch mediators",
		})
	}

	out := make([]mediatorResponse, len(mediators))
	for i := range mediators {
		out[i] = mediatorResponse{Mediator: mediators[i], WhatsAppLink: mediators[i].WhatsAppLink("")}
	}

	database.CacheSet(database.CacheKeyMediators, out, database.CacheTTLLookups)

	return c.JSON(fiber.Map{"success": true, "data": out})
}

type mediatorResponse struct {
	models.Mediator
	WhatsAppLink string `json:"whatsappLink"`
}

// CreateMediator adds a mediator.
func (h *LookupHandler) CreateMediator(c *fiber.Ctx) error {
	var mediator models.Mediator
	if err := c.BodyParser(&mediator); err != nil || strings.TrimSpace(mediator.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "name is required",
		})
	}
	mediator.ID = 0
	mediator.Name = strings.TrimSpace(mediator.Name)

	if err := database.DB.Create(&mediator).Error; err != nil {
		log.Printf("ERROR: Failed to create mediator: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create mediator (duplicate name?)",
		})
	}

	database.InvalidateLookupCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": mediator})
}

// DeleteMediator removes a mediator and detaches it from reviews.
func (h *LookupHandler) DeleteMediator(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid mediator ID"})
	}

	var mediator models.Mediator
	if err := database.DB.First(&mediator, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Mediator not found"})
	}

	database.DB.Model(&models.Review{}).Where("mediator_id = ?", id).Update("mediator_id", nil)
	if err := database.DB.Delete(&mediator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete mediator",
		})
	}

	database.InvalidateLookupCache()
	database.InvalidateDashboardCache()
	return c.JSON(fiber.Map{"success": true, "message": "Mediator deleted"})
}

// ListStatuses returns the fixed status vocabulary.
func (h *LookupHandler) ListStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": models.AllStatuses})
}
