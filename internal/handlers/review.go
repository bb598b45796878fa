package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
	"gorm.io/gorm"
)

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler {
	return &ReviewHandler{}
}

// ReviewFilter carries the search/aggregate filter set. Multi-value
// fields accept repeated params or comma-separated lists.
type ReviewFilter struct {
	PlatformIDIn        []uint   `json:"platformIdIn"`
	MediatorIDIn        []uint   `json:"mediatorIdIn"`
	StatusIn            []string `json:"statusIn"`
	DealTypeIn          []string `json:"dealTypeIn"`
	OrderIDContains     string   `json:"orderIdContains"`
	ProductNameContains string   `json:"productNameContains"`
	HasRefundFormURL    *bool    `json:"hasRefundFormUrl"`
}

// queryMulti collects a query param given repeated or comma-separated.
func queryMulti(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryMultiUint(c *fiber.Ctx, key string) []uint {
	var out []uint
	for _, s := range queryMulti(c, key) {
		if v, err := strconv.ParseUint(s, 10, 32); err == nil {
			out = append(out, uint(v))
		}
	}
	return out
}

func filterFromQuery(c *fiber.Ctx) ReviewFilter {
	f := ReviewFilter{
		PlatformIDIn:        queryMultiUint(c, "platformIdIn"),
		MediatorIDIn:        queryMultiUint(c, "mediatorIdIn"),
		StatusIn:            queryMulti(c, "statusIn"),
		DealTypeIn:          queryMulti(c, "dealTypeIn"),
		OrderIDContains:     c.Query("orderIdContains"),
		ProductNameContains: c.Query("productNameContains"),
	}
	if v := c.Query("hasRefundFormUrl"); v != "" {
		b := v == "true" || v == "1"
		f.HasRefundFormURL = &b
	}
	return f
}

// apply narrows a reviews query with the filter.
func (f ReviewFilter) apply(query *gorm.DB) *gorm.DB {
	if len(f.PlatformIDIn) > 0 {
		query = query.Where("platform_id IN ?", f.PlatformIDIn)
	}
	if len(f.MediatorIDIn) > 0 {
		query = query.Where("mediator_id IN ?", f.MediatorIDIn)
	}
	if len(f.StatusIn) > 0 {
		query = query.Where("status IN ?", f.StatusIn)
	}
	if len(f.DealTypeIn) > 0 {
		query = query.Where("deal_type IN ?", f.DealTypeIn)
	}
	if f.OrderIDContains != "" {
		query = query.Where("order_id ILIKE ?", "%"+f.OrderIDContains+"%")
	}
	if f.ProductNameContains != "" {
		query = query.Where("product_name ILIKE ?", "%"+f.ProductNameContains+"%")
	}
	if f.HasRefundFormURL != nil {
		if *f.HasRefundFormURL {
			query = query.Where("refund_form_url <> ''")
		} else {
			query = query.Where("refund_form_url = ''")
		}
	}
	return query
}

// List returns all reviews, optionally narrowed by a free-text search.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	search := c.Query("search", "")

	query := database.DB.Model(&models.Review{}).Preload("Platform").Preload("Mediator")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("order_id ILIKE ? OR product_name ILIKE ? OR order_link ILIKE ?", pattern, pattern, pattern)
	}

	var reviews []models.Review
	if err := query.Order("created_at desc").Find(&reviews).Error; err != nil {
		log.Printf("ERROR: Failed to fetch reviews: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch reviews",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}

// Get returns a single review by ID.
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	review, err := h.find(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": review})
}

func (h *ReviewHandler) find(c *fiber.Ctx) (*models.Review, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid review ID",
		})
	}

	var review models.Review
	if err := database.DB.Preload("Platform").Preload("Mediator").First(&review, id).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Review not found",
		})
	}
	return &review, nil
}

// normalize derives computed fields and validates a review before save.
func normalize(review *models.Review) error {
	review.OrderID = strings.TrimSpace(review.OrderID)
	if review.OrderID == "" {
		return fmt.Errorf("orderId is required")
	}
	if review.DealType == "" {
		review.DealType = models.DealTypeReviewSubmission
	}
	if err := review.ValidateMoney(); err != nil {
		return err
	}
	if err := review.ValidateDateChain(); err != nil {
		return err
	}
	review.DeriveRefund()
	review.Status = review.ComputeStatus()
	return nil
}

// Create adds a new review.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	review.ID = 0

	if err := normalize(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	var count int64
	database.DB.Model(&models.Review{}).Where("order_id = ?", review.OrderID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A review with this order ID already exists",
		})
	}

	if err := database.DB.Create(&review).Error; err != nil {
		log.Printf("ERROR: Failed to create review: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create review",
		})
	}

	h.logHistory(review.ID, models.HistoryCreate, "Created", nil)
	database.InvalidateDashboardCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// Update replaces the editable fields of a review.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	review, err := h.find(c)
	if err != nil {
		return err
	}

	var input models.Review
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if input.OrderID != "" && input.OrderID != review.OrderID {
		var count int64
		database.DB.Model(&models.Review{}).Where("order_id = ? AND id <> ?", input.OrderID, review.ID).Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "A review with this order ID already exists",
			})
		}
	}

	before := *review

	if input.OrderID != "" {
		review.OrderID = input.OrderID
	}
	review.OrderLink = input.OrderLink
	review.ProductName = input.ProductName
	if input.DealType != "" {
		review.DealType = input.DealType
	}
	review.PlatformID = input.PlatformID
	review.MediatorID = input.MediatorID
	review.AmountRupees = input.AmountRupees
	review.LessRupees = input.LessRupees
	review.RefundAmountRupees = input.RefundAmountRupees
	review.OrderedDate = input.OrderedDate
	review.DeliveryDate = input.DeliveryDate
	review.ReviewSubmitDate = input.ReviewSubmitDate
	review.ReviewAcceptedDate = input.ReviewAcceptedDate
	review.RatingSubmittedDate = input.RatingSubmittedDate
	review.RefundFormSubmittedDate = input.RefundFormSubmittedDate
	review.PaymentReceivedDate = input.PaymentReceivedDate
	review.RefundFormURL = input.RefundFormURL
	review.ImageURL = input.ImageURL

	// Refund follows amount/less on edit unless explicitly overridden
	if input.RefundAmountRupees == nil && review.AmountRupees != nil && review.LessRupees != nil {
		refund := *review.AmountRupees - *review.LessRupees
		review.RefundAmountRupees = &refund
	}

	if err := normalize(review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := database.DB.Save(review).Error; err != nil {
		log.Printf("ERROR: Failed to update review %d: %v", review.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update review",
		})
	}

	h.logHistory(review.ID, models.HistoryUpdate, "Updated", diffReviews(&before, review))
	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{"success": true, "data": review})
}

// Delete soft-deletes a review.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	review, err := h.find(c)
	if err != nil {
		return err
	}

	if err := database.DB.Delete(review).Error; err != nil {
		log.Printf("ERROR: Failed to delete review %d: %v", review.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete review",
		})
	}

	h.logHistory(review.ID, models.HistoryDelete, "Deleted "+review.OrderID, nil)
	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{"success": true, "message": "Review deleted"})
}

// Search returns a filtered, sorted page of reviews with totals.
func (h *ReviewHandler) Search(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	size, _ := strconv.Atoi(c.Query("size", "25"))
	sortBy := c.Query("sort", "created_at")
	sortDir := c.Query("dir", "desc")

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 25
	}
	offset := (page - 1) * size

	allowedSortFields := map[string]bool{
		"order_id": true, "product_name": true, "status": true, "deal_type": true,
		"created_at": true, "ordered_date": true, "delivery_date": true,
		"amount_rupees": true, "refund_amount_rupees": true,
	}
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortDir != "asc" && sortDir != "desc" {
		sortDir = "desc"
	}

	filter := filterFromQuery(c)
	query := filter.apply(database.DB.Model(&models.Review{}))

	var total int64
	query.Count(&total)

	var reviews []models.Review
	err := query.Preload("Platform").Preload("Mediator").
		Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(offset).Limit(size).
		Find(&reviews).Error
	if err != nil {
		log.Printf("ERROR: Failed to search reviews: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to search reviews",
		})
	}

	totals := h.aggregate(filter)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
		"meta": fiber.Map{
			"page":       page,
			"size":       size,
			"total":      total,
			"totalPages": (total + int64(size) - 1) / int64(size),
		},
		"totals": totals,
	})
}

// aggregate computes authoritative totals for a filter in SQL.
func (h *ReviewHandler) aggregate(filter ReviewFilter) models.Totals {
	var totals models.Totals
	err := filter.apply(database.DB.Model(&models.Review{})).
		Select(`COUNT(*) as count,
			COALESCE(SUM(amount_rupees), 0) as total_amount,
			COALESCE(SUM(COALESCE(refund_amount_rupees, amount_rupees - less_rupees, 0)), 0) as total_refund`).
		Scan(&totals).Error
	if err != nil {
		log.Printf("ERROR: Failed to aggregate reviews: %v", err)
	}
	return totals
}

// Aggregates returns count and amount totals for a filter. GET reads the
// filter from query params, POST from a JSON body.
func (h *ReviewHandler) Aggregates(c *fiber.Ctx) error {
	var filter ReviewFilter
	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&filter); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
			})
		}
	} else {
		filter = filterFromQuery(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.aggregate(filter)})
}

// Clone duplicates a review under "<orderId>-clone".
func (h *ReviewHandler) Clone(c *fiber.Ctx) error {
	review, err := h.find(c)
	if err != nil {
		return err
	}

	clone := *review
	clone.ID = 0
	clone.OrderID = review.OrderID + "-clone"
	clone.Platform = nil
	clone.Mediator = nil
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	var count int64
	database.DB.Model(&models.Review{}).Where("order_id = ?", clone.OrderID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A clone of this review already exists",
		})
	}

	if err := database.DB.Create(&clone).Error; err != nil {
		log.Printf("ERROR: Failed to clone review %d: %v", review.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to clone review",
		})
	}

	h.logHistory(clone.ID, models.HistoryClone, "Cloned from "+review.OrderID, nil)
	database.InvalidateDashboardCache()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": clone})
}

// copyableFields whitelists what CopyFields may transfer. "dates" expands
// to every milestone field.
var copyableFields = map[string]bool{
	"orderLink": true, "productName": true, "dealType": true,
	"platformId": true, "mediatorId": true,
	"amountRupees": true, "lessRupees": true, "refundAmountRupees": true,
	"dates": true,
}

// CopyFields copies selected fields from one review onto another.
func (h *ReviewHandler) CopyFields(c *fiber.Ctx) error {
	srcID, err1 := strconv.Atoi(c.Params("srcId"))
	targetID, err2 := strconv.Atoi(c.Params("targetId"))
	if err1 != nil || err2 != nil || srcID == targetID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid source or target ID",
		})
	}

	var req struct {
		Fields []string `json:"fields"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.Fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "fields is required",
		})
	}

	var src, target models.Review
	if err := database.DB.First(&src, srcID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Source review not found"})
	}
	if err := database.DB.First(&target, targetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Target review not found"})
	}

	before := target
	for _, field := range req.Fields {
		if !copyableFields[field] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Field cannot be copied: " + field,
			})
		}
		switch field {
		case "orderLink":
			target.OrderLink = src.OrderLink
		case "productName":
			target.ProductName = src.ProductName
		case "dealType":
			target.DealType = src.DealType
		case "platformId":
			target.PlatformID = src.PlatformID
		case "mediatorId":
			target.MediatorID = src.MediatorID
		case "amountRupees":
			target.AmountRupees = src.AmountRupees
		case "lessRupees":
			target.LessRupees = src.LessRupees
		case "refundAmountRupees":
			target.RefundAmountRupees = src.RefundAmountRupees
		case "dates":
			for _, f := range models.MilestoneSequence(src.DealType) {
				target.SetMilestoneDate(f, src.MilestoneDate(f))
			}
		}
	}

	target.Status = target.ComputeStatus()
	if err := database.DB.Save(&target).Error; err != nil {
		log.Printf("ERROR: Failed to copy fields to review %d: %v", target.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to copy fields",
		})
	}

	h.logHistory(target.ID, models.HistoryCopy, "Copied fields from "+src.OrderID, diffReviews(&before, &target))
	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{"success": true, "data": target})
}

// Advance fills the next pending milestone of a review.
func (h *ReviewHandler) Advance(c *fiber.Ctx) error {
	review, err := h.find(c)
	if err != nil {
		return err
	}

	var req struct {
		Date *models.Date `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if req.Date == nil {
		today := models.Today()
		req.Date = &today
	}

	before := *review
	if !review.Advance(req.Date) {
		return c.JSON(fiber.Map{"success": true, "data": review, "message": "Review already complete"})
	}
	review.Status = review.ComputeStatus()

	if err := database.DB.Save(review).Error; err != nil {
		log.Printf("ERROR: Failed to advance review %d: %v", review.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to advance review",
		})
	}

	h.logHistory(review.ID, models.HistoryAdvance, "Advanced", diffReviews(&before, review))
	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{"success": true, "data": review})
}

// BulkAdvance advances a set of reviews with the same date. Reviews that
// are already complete are skipped.
func (h *ReviewHandler) BulkAdvance(c *fiber.Ctx) error {
	var req struct {
		IDs  []uint       `json:"ids"`
		Date *models.Date `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ids is required",
		})
	}
	if req.Date == nil {
		today := models.Today()
		req.Date = &today
	}

	var reviews []models.Review
	if err := database.DB.Where("id IN ?", req.IDs).Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch reviews",
		})
	}

	advanced := 0
	for i := range reviews {
		r := &reviews[i]
		if !r.Advance(req.Date) {
			continue
		}
		r.Status = r.ComputeStatus()
		if err := database.DB.Save(r).Error; err != nil {
			log.Printf("ERROR: Failed to advance review %d: %v", r.ID, err)
			continue
		}
		h.logHistory(r.ID, models.HistoryBulkAdvance, "Advanced (bulk)", nil)
		advanced++
	}

	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Advanced %d of %d reviews", advanced, len(reviews)),
		"stats":   fiber.Map{"advanced": advanced, "skipped": len(reviews) - advanced},
	})
}

// bulkUpdatableFields whitelists what BulkUpdate may touch.
var bulkUpdatableFields = map[string]bool{
	"platformId": true, "mediatorId": true, "orderLink": true, "dealType": true,
	models.FieldOrderedDate: true, models.FieldDeliveryDate: true,
	models.FieldReviewSubmitDate: true, models.FieldReviewAcceptedDate: true,
	models.FieldRatingSubmittedDate: true, models.FieldRefundFormSubmittedDate: true,
	models.FieldPaymentReceivedDate: true,
}

// BulkUpdate applies a field/value map to a set of reviews.
func (h *ReviewHandler) BulkUpdate(c *fiber.Ctx) error {
	var req struct {
		IDs     []uint                     `json:"ids"`
		Updates map[string]json.RawMessage `json:"updates"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 || len(req.Updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ids and updates are required",
		})
	}

	for field := range req.Updates {
		if !bulkUpdatableFields[field] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Field cannot be bulk updated: " + field,
			})
		}
	}

	var reviews []models.Review
	if err := database.DB.Where("id IN ?", req.IDs).Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch reviews",
		})
	}

	updated := 0
	for i := range reviews {
		r := &reviews[i]
		before := *r
		if err := applyBulkUpdates(r, req.Updates); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		r.Status = r.ComputeStatus()
		if err := database.DB.Save(r).Error; err != nil {
			log.Printf("ERROR: Failed to bulk update review %d: %v", r.ID, err)
			continue
		}
		h.logHistory(r.ID, models.HistoryBulkUpdate, "Updated (bulk)", diffReviews(&before, r))
		updated++
	}

	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Updated %d reviews", updated),
	})
}

func applyBulkUpdates(r *models.Review, updates map[string]json.RawMessage) error {
	for field, raw := range updates {
		switch field {
		case "platformId", "mediatorId":
			var id *uint
			if err := json.Unmarshal(raw, &id); err != nil {
				return fmt.Errorf("invalid value for %s", field)
			}
			if field == "platformId" {
				r.PlatformID = id
			} else {
				r.MediatorID = id
			}
		case "orderLink":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("invalid value for orderLink")
			}
			r.OrderLink = s
		case "dealType":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil || !models.ValidDealType(s) {
				return fmt.Errorf("invalid value for dealType")
			}
			r.DealType = s
		default:
			var d *models.Date
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("invalid date for %s", field)
			}
			r.SetMilestoneDate(field, d)
		}
	}
	return nil
}

// BulkDelete soft-deletes a set of reviews. Accepts a bare ID array or
// {"ids": [...]}.
func (h *ReviewHandler) BulkDelete(c *fiber.Ctx) error {
	var ids []uint
	if err := json.Unmarshal(c.Body(), &ids); err != nil {
		var req struct {
			IDs []uint `json:"ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
			})
		}
		ids = req.IDs
	}
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ids is required",
		})
	}

	result := database.DB.Where("id IN ?", ids).Delete(&models.Review{})
	if result.Error != nil {
		log.Printf("ERROR: Failed to bulk delete reviews: %v", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete reviews",
		})
	}

	database.InvalidateDashboardCache()

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Deleted %d reviews", result.RowsAffected),
	})
}

// History returns the audit trail for a review, newest first.
func (h *ReviewHandler) History(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid review ID",
		})
	}

	var entries []models.ReviewHistory
	if err := database.DB.Where("review_id = ?", id).Order("at desc").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch history",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}

// OverdueCount returns how many reviews have waited on a milestone for
// more than 7 days since delivery.
func (h *ReviewHandler) OverdueCount(c *fiber.Ctx) error {
	count, err := countOverdue()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count overdue reviews",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"count": count}})
}

const overdueThresholdDays = 7

func countOverdue() (int, error) {
	cutoff := time.Now().AddDate(0, 0, -overdueThresholdDays)
	var candidates []models.Review
	err := database.DB.
		Where("delivery_date IS NOT NULL AND delivery_date < ?", cutoff).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	now := time.Now()
	count := 0
	for i := range candidates {
		if candidates[i].IsOverdue(now, overdueThresholdDays) {
			count++
		}
	}
	return count, nil
}

func (h *ReviewHandler) logHistory(reviewID uint, eventType, note string, changes []models.FieldChange) {
	entry := models.NewHistory(reviewID, eventType, note, changes)
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("WARNING: Failed to log history for review %d: %v", reviewID, err)
	}
}

func fmtDatePtr(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func fmtFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func fmtUintPtr(u *uint) string {
	if u == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*u), 10)
}

// diffReviews lists field transitions between two versions of a review.
func diffReviews(before, after *models.Review) []models.FieldChange {
	var changes []models.FieldChange
	add := func(field, from, to string) {
		if from != to {
			changes = append(changes, models.FieldChange{Field: field, From: from, To: to})
		}
	}

	add("orderId", before.OrderID, after.OrderID)
	add("orderLink", before.OrderLink, after.OrderLink)
	add("productName", before.ProductName, after.ProductName)
	add("dealType", before.DealType, after.DealType)
	add("status", before.Status, after.Status)
	add("platformId", fmtUintPtr(before.PlatformID), fmtUintPtr(after.PlatformID))
	add("mediatorId", fmtUintPtr(before.MediatorID), fmtUintPtr(after.MediatorID))
	add("amountRupees", fmtFloatPtr(before.AmountRupees), fmtFloatPtr(after.AmountRupees))
	add("lessRupees", fmtFloatPtr(before.LessRupees), fmtFloatPtr(after.LessRupees))
	add("refundAmountRupees", fmtFloatPtr(before.RefundAmountRupees), fmtFloatPtr(after.RefundAmountRupees))
	add("refundFormUrl", before.RefundFormURL, after.RefundFormURL)
	add("imageUrl", before.ImageURL, after.ImageURL)
	for _, field := range []string{
		models.FieldOrderedDate, models.FieldDeliveryDate, models.FieldReviewSubmitDate,
		models.FieldReviewAcceptedDate, models.FieldRatingSubmittedDate,
		models.FieldRefundFormSubmittedDate, models.FieldPaymentReceivedDate,
	} {
		add(field, fmtDatePtr(before.MilestoneDate(field)), fmtDatePtr(after.MilestoneDate(field)))
	}
	return changes
}
