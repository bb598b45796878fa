package handlers

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
	"github.com/reviewtracker/backend/internal/services"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List evaluates the active rules against every review.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := services.EvaluateAllRules(time.Now())
	if err != nil {
		log.Printf("ERROR: Failed to evaluate notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to evaluate notifications",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
		"meta":    fiber.Map{"count": len(notifications)},
	})
}

// Count returns the cached pending notification count, evaluating fresh
// on a cache miss.
func (h *NotificationHandler) Count(c *fiber.Ctx) error {
	var cached int
	if err := database.CacheGet(database.CacheKeyNotificationCount, &cached); err == nil {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"count": cached}, "cached": true})
	}

	notifications, err := services.EvaluateAllRules(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to evaluate notifications",
		})
	}

	database.CacheSet(database.CacheKeyNotificationCount, len(notifications), database.CacheTTLNotificationCount)

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"count": len(notifications)}})
}

// ListRules returns all notification rules.
func (h *NotificationHandler) ListRules(c *fiber.Ctx) error {
	var rules []models.NotificationRule
	if err := database.DB.Order("id asc").Find(&rules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notification rules",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": rules})
}

func validateRule(rule *models.NotificationRule) string {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return "name is required"
	}
	if rule.DaysAfter < 0 {
		return "daysAfter must be >= 0"
	}
	milestones := map[string]bool{
		models.FieldOrderedDate: true, models.FieldDeliveryDate: true,
		models.FieldReviewSubmitDate: true, models.FieldReviewAcceptedDate: true,
		models.FieldRatingSubmittedDate: true, models.FieldRefundFormSubmittedDate: true,
		models.FieldPaymentReceivedDate: true,
	}
	if !milestones[rule.TriggerField] {
		return "invalid triggerField"
	}
	if !milestones[rule.MissingField] {
		return "invalid missingField"
	}
	switch rule.Type {
	case models.NotifyInfo, models.NotifyWarning, models.NotifyUrgent:
	case "":
		rule.Type = models.NotifyWarning
	default:
		return "invalid type"
	}
	return ""
}

// CreateRule adds a notification rule.
func (h *NotificationHandler) CreateRule(c *fiber.Ctx) error {
	var rule models.NotificationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	rule.ID = 0

	if msg := validateRule(&rule); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
	}

	if err := database.DB.Create(&rule).Error; err != nil {
		log.Printf("ERROR: Failed to create notification rule: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create notification rule (duplicate name?)",
		})
	}

	database.CacheDelete(database.CacheKeyNotificationCount)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rule})
}

// UpdateRule replaces a notification rule.
func (h *NotificationHandler) UpdateRule(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid rule ID"})
	}

	var rule models.NotificationRule
	if err := database.DB.First(&rule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Notification rule not found"})
	}

	var input models.NotificationRule
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	input.ID = rule.ID
	input.CreatedAt = rule.CreatedAt
	if msg := validateRule(&input); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
	}

	if err := database.DB.Save(&input).Error; err != nil {
		log.Printf("ERROR: Failed to update notification rule %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update notification rule",
		})
	}

	database.CacheDelete(database.CacheKeyNotificationCount)
	return c.JSON(fiber.Map{"success": true, "data": input})
}

// DeleteRule removes a notification rule.
func (h *NotificationHandler) DeleteRule(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid rule ID"})
	}

	result := database.DB.Delete(&models.NotificationRule{}, id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete notification rule",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Notification rule not found"})
	}

	database.CacheDelete(database.CacheKeyNotificationCount)
	return c.JSON(fiber.Map{"success": true, "message": "Notification rule deleted"})
}
