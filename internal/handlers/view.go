package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
)

type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

// List returns all saved view presets.
func (h *ViewHandler) List(c *fiber.Ctx) error {
	var views []models.ViewPreset
	if err := database.DB.Order("name asc").Find(&views).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch views",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": views})
}

// Save creates a preset, or replaces the config of an existing one with
// the same name.
func (h *ViewHandler) Save(c *fiber.Ctx) error {
	var input models.ViewPreset
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "name is required",
		})
	}
	input.Name = strings.TrimSpace(input.Name)

	var view models.ViewPreset
	err := database.DB.Where("name = ?", input.Name).First(&view).Error
	if err == nil {
		view.Config = input.Config
		if err := database.DB.Save(&view).Error; err != nil {
			log.Printf("ERROR: Failed to update view %q: %v", view.Name, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to save view",
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": view})
	}

	// Slug is assigned up front; sharing just flips the flag
	view = models.ViewPreset{Name: input.Name, Config: input.Config, Slug: models.NewShareSlug()}
	if err := database.DB.Create(&view).Error; err != nil {
		log.Printf("ERROR: Failed to create view %q: %v", view.Name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to save view",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": view})
}

// Delete removes a preset.
func (h *ViewHandler) Delete(c *fiber.Ctx) error {
	view, err := h.find(c)
	if err != nil {
		return err
	}
	if err := database.DB.Delete(view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete view",
		})
	}
	return c.JSON(fiber.Map{"success": true, "message": "View deleted"})
}

func (h *ViewHandler) find(c *fiber.Ctx) (*models.ViewPreset, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid view ID",
		})
	}
	var view models.ViewPreset
	if err := database.DB.First(&view, id).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "View not found",
		})
	}
	return &view, nil
}

// Share marks a preset shared and assigns a slug on first share.
func (h *ViewHandler) Share(c *fiber.Ctx) error {
	view, err := h.find(c)
	if err != nil {
		return err
	}

	view.Shared = true
	if view.Slug == "" {
		view.Slug = models.NewShareSlug()
	}
	if err := database.DB.Save(view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to share view",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

// Unshare revokes the public link. The slug stays, so re-sharing gives
// the same URL.
func (h *ViewHandler) Unshare(c *fiber.Ctx) error {
	view, err := h.find(c)
	if err != nil {
		return err
	}

	view.Shared = false
	if err := database.DB.Save(view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to unshare view",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

// Shared serves a preset by slug. Public, but only while sharing is on.
func (h *ViewHandler) Shared(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var view models.ViewPreset
	if err := database.DB.Where("slug = ? AND shared = ?", slug, true).First(&view).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Shared view not found",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}
