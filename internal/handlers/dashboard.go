package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

const effectiveRefundSQL = "COALESCE(refund_amount_rupees, amount_rupees - less_rupees, 0)"

// DashboardStats is the aggregate view served to the dashboard.
type DashboardStats struct {
	TotalReviews   int64   `json:"totalReviews"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalRefund    float64 `json:"totalRefund"`
	ReceivedCount  int64   `json:"receivedCount"`
	ReceivedAmount float64 `json:"receivedAmount"`
	PendingCount   int64   `json:"pendingCount"`
	PendingAmount  float64 `json:"pendingAmount"`
	AverageRefund  float64 `json:"averageRefund"`
	OverdueCount   int     `json:"overdueCount"`

	ByStatus   map[string]int64          `json:"byStatus"`
	ByDealType map[string]int64          `json:"byDealType"`
	ByPlatform map[string]GroupBreakdown `json:"byPlatform"`
	ByMediator map[string]GroupBreakdown `json:"byMediator"`
}

// GroupBreakdown splits a group's refunds into received and pending.
type GroupBreakdown struct {
	Count          int64   `json:"count"`
	ReceivedAmount float64 `json:"receivedAmount"`
	PendingAmount  float64 `json:"pendingAmount"`
}

// Stats returns dashboard statistics, cached in Redis for one minute.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var cached DashboardStats
	if err := database.CacheGet(database.CacheKeyDashboardStats, &cached); err == nil {
		return c.JSON(fiber.Map{"success": true, "data": cached, "cached": true})
	}

	stats, err := computeDashboardStats()
	if err != nil {
		log.Printf("ERROR: Failed to compute dashboard stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute dashboard stats",
		})
	}

	database.CacheSet(database.CacheKeyDashboardStats, stats, database.CacheTTLDashboard)

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

func computeDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[string]int64),
		ByDealType: make(map[string]int64),
		ByPlatform: make(map[string]GroupBreakdown),
		ByMediator: make(map[string]GroupBreakdown),
	}

	var totals struct {
		Count       int64
		TotalAmount float64
		TotalRefund float64
	}
	err := database.DB.Model(&models.Review{}).
		Select("COUNT(*) as count, COALESCE(SUM(amount_rupees), 0) as total_amount, COALESCE(SUM(" + effectiveRefundSQL + "), 0) as total_refund").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalReviews = totals.Count
	stats.TotalAmount = totals.TotalAmount
	stats.TotalRefund = totals.TotalRefund

	var received struct {
		Count  int64
		Amount float64
	}
	err = database.DB.Model(&models.Review{}).
		Where("payment_received_date IS NOT NULL").
		Select("COUNT(*) as count, COALESCE(SUM(" + effectiveRefundSQL + "), 0) as amount").
		Scan(&received).Error
	if err != nil {
		return nil, err
	}
	stats.ReceivedCount = received.Count
	stats.ReceivedAmount = received.Amount
	stats.PendingCount = totals.Count - received.Count
	stats.PendingAmount = totals.TotalRefund - received.Amount
	if received.Count > 0 {
		stats.AverageRefund = received.Amount / float64(received.Count)
	}

	type countRow struct {
		Key   string
		Count int64
	}
	var statusRows []countRow
	if err := database.DB.Model(&models.Review{}).
		Select("status as key, COUNT(*) as count").Group("status").Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Key] = row.Count
	}

	var dealTypeRows []countRow
	if err := database.DB.Model(&models.Review{}).
		Select("deal_type as key, COUNT(*) as count").Group("deal_type").Scan(&dealTypeRows).Error; err != nil {
		return nil, err
	}
	for _, row := range dealTypeRows {
		stats.ByDealType[row.Key] = row.Count
	}

	type groupRow struct {
		Key            string
		Count          int64
		ReceivedAmount float64
		PendingAmount  float64
	}
	groupSelect := `COUNT(*) as count,
		COALESCE(SUM(CASE WHEN payment_received_date IS NOT NULL THEN ` + effectiveRefundSQL + ` ELSE 0 END), 0) as received_amount,
		COALESCE(SUM(CASE WHEN payment_received_date IS NULL THEN ` + effectiveRefundSQL + ` ELSE 0 END), 0) as pending_amount`

	var platformRows []groupRow
	err = database.DB.Model(&models.Review{}).
		Joins("LEFT JOIN platforms ON platforms.id = reviews.platform_id").
		Select("COALESCE(platforms.name, 'Unassigned') as key, " + groupSelect).
		Group("platforms.name").Scan(&platformRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range platformRows {
		stats.ByPlatform[row.Key] = GroupBreakdown{Count: row.Count, ReceivedAmount: row.ReceivedAmount, PendingAmount: row.PendingAmount}
	}

	var mediatorRows []groupRow
	err = database.DB.Model(&models.Review{}).
		Joins("LEFT JOIN mediators ON mediators.id = reviews.mediator_id").
		Select("COALESCE(mediators.name, 'Unassigned') as key, " + groupSelect).
		Group("mediators.name").Scan(&mediatorRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range mediatorRows {
		stats.ByMediator[row.Key] = GroupBreakdown{Count: row.Count, ReceivedAmount: row.ReceivedAmount, PendingAmount: row.PendingAmount}
	}

	overdue, err := countOverdue()
	if err != nil {
		return nil, err
	}
	stats.OverdueCount = overdue

	return stats, nil
}
