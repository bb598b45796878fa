package services

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
)

// EvaluateRules applies notification rules to reviews. A rule fires when
// its trigger field was set at least DaysAfter days before now, the
// missing field is still empty, and the review status is not excluded.
func EvaluateRules(rules []models.NotificationRule, reviews []models.Review, now time.Time) []models.Notification {
	var notifications []models.Notification
	for i := range reviews {
		review := &reviews[i]
		for _, rule := range rules {
			if !rule.Active {
				continue
			}
			if rule.ExcludeStatus != "" && review.Status == rule.ExcludeStatus {
				continue
			}
			trigger := review.MilestoneDate(rule.TriggerField)
			if trigger == nil {
				continue
			}
			if review.MilestoneDate(rule.MissingField) != nil {
				continue
			}
			days := int(now.Sub(trigger.Time).Hours() / 24)
			if days < rule.DaysAfter {
				continue
			}
			notifications = append(notifications, models.Notification{
				ReviewID:  review.ID,
				OrderID:   review.OrderID,
				Type:      rule.Type,
				Message:   expandTemplate(rule.MessageTemplate, review, days),
				ActionURL: expandTemplate(rule.ActionURL, review, days),
				Days:      days,
			})
		}
	}
	return notifications
}

// expandTemplate substitutes {orderId}, {id} and {days} placeholders.
func expandTemplate(template string, review *models.Review, days int) string {
	s := strings.ReplaceAll(template, "{orderId}", review.OrderID)
	s = strings.ReplaceAll(s, "{id}", strconv.FormatUint(uint64(review.ID), 10))
	s = strings.ReplaceAll(s, "{days}", strconv.Itoa(days))
	return s
}

// EvaluateAllRules loads active rules and all reviews and evaluates them.
func EvaluateAllRules(now time.Time) ([]models.Notification, error) {
	var rules []models.NotificationRule
	if err := database.DB.Where("active = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := database.DB.Find(&reviews).Error; err != nil {
		return nil, err
	}

	return EvaluateRules(rules, reviews, now), nil
}

// NotificationCountService keeps the pending notification count warm in
// Redis so the UI badge poll never hits the rule engine directly.
type NotificationCountService struct {
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewNotificationCountService creates a new notification count service
func NewNotificationCountService() *NotificationCountService {
	return &NotificationCountService{
		interval: 5 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic count refresh
func (s *NotificationCountService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Println("NotificationCountService started")

		s.refresh()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-s.stopChan:
				log.Println("NotificationCountService stopped")
				return
			}
		}
	}()
}

// Stop stops the notification count service
func (s *NotificationCountService) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *NotificationCountService) refresh() {
	notifications, err := EvaluateAllRules(time.Now())
	if err != nil {
		log.Printf("NotificationCountService: evaluation failed: %v", err)
		return
	}

	if err := database.CacheSet(database.CacheKeyNotificationCount, len(notifications), database.CacheTTLNotificationCount); err != nil {
		log.Printf("NotificationCountService: cache write failed: %v", err)
	}
}
