package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
	"github.com/reviewtracker/backend/internal/services"
)

// Export streams the filtered review set as CSV.
func (h *ReviewHandler) Export(c *fiber.Ctx) error {
	filter := filterFromQuery(c)

	var reviews []models.Review
	if err := filter.apply(database.DB.Model(&models.Review{})).Order("created_at asc").Find(&reviews).Error; err != nil {
		log.Printf("ERROR: Failed to fetch reviews for export: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export reviews",
		})
	}

	data, err := services.EncodeReviewsCSV(reviews)
	if err != nil {
		log.Printf("ERROR: Failed to encode CSV: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to export reviews",
		})
	}

	filename := fmt.Sprintf("reviews-%s.csv", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// Import creates reviews from an uploaded CSV file. The whole file is
// rejected when any row duplicates an existing order ID.
func (h *ReviewHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "CSV file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	reviews, skipped, err := services.ParseReviewsCSV(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	if len(reviews) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No importable rows found",
		})
	}

	// Duplicates inside the file
	seen := make(map[string]bool, len(reviews))
	orderIDs := make([]string, 0, len(reviews))
	for i := range reviews {
		if seen[reviews[i].OrderID] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Duplicate order ID in file: " + reviews[i].OrderID,
			})
		}
		seen[reviews[i].OrderID] = true
		orderIDs = append(orderIDs, reviews[i].OrderID)
	}

	// Duplicates against existing records
	var existing []string
	database.DB.Model(&models.Review{}).Where("order_id IN ?", orderIDs).Pluck("order_id", &existing)
	if len(existing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Order ID already exists: " + existing[0],
		})
	}

	if err := database.DB.Create(&reviews).Error; err != nil {
		log.Printf("ERROR: Failed to import reviews: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to import reviews",
		})
	}

	for i := range reviews {
		h.logHistory(reviews[i].ID, models.HistoryImport, "Imported from "+fileHeader.Filename, nil)
	}
	database.InvalidateDashboardCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Imported %d reviews", len(reviews)),
		"stats":   fiber.Map{"imported": len(reviews), "skipped": skipped},
	})
}
