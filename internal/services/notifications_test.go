package services

import (
	"testing"
	"time"

	"github.com/reviewtracker/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewReminderRule() models.NotificationRule {
	return models.NotificationRule{
		Name:            "Review reminder",
		TriggerField:    models.FieldOrderedDate,
		DaysAfter:       7,
		MissingField:    models.FieldReviewSubmitDate,
		Type:            models.NotifyWarning,
		MessageTemplate: "Review pending for order {orderId} ({days} days since ordered)",
		ActionURL:       "/reviews/{id}",
		Active:          true,
	}
}

func TestEvaluateRules(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	rule := reviewReminderRule()

	tests := []struct {
		name   string
		review models.Review
		fires  bool
	}{
		{
			name: "fires past the window",
			review: models.Review{
				ID:          4,
				OrderID:     "ORD-4",
				DealType:    models.DealTypeReviewSubmission,
				OrderedDate: datePtr(2026, 3, 1),
			},
			fires: true,
		},
		{
			name: "quiet inside the window",
			review: models.Review{
				OrderID:     "ORD-5",
				DealType:    models.DealTypeReviewSubmission,
				OrderedDate: datePtr(2026, 3, 10),
			},
			fires: false,
		},
		{
			name: "quiet when the missing field is filled",
			review: models.Review{
				OrderID:          "ORD-6",
				DealType:         models.DealTypeReviewSubmission,
				OrderedDate:      datePtr(2026, 3, 1),
				ReviewSubmitDate: datePtr(2026, 3, 5),
			},
			fires: false,
		},
		{
			name: "quiet without a trigger date",
			review: models.Review{
				OrderID:  "ORD-7",
				DealType: models.DealTypeReviewSubmission,
			},
			fires: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRules([]models.NotificationRule{rule}, []models.Review{tt.review}, now)
			if !tt.fires {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, models.NotifyWarning, got[0].Type)
			assert.Equal(t, tt.review.OrderID, got[0].OrderID)
		})
	}
}

func TestEvaluateRulesTemplateExpansion(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := reviewReminderRule()
	review := models.Review{
		ID:          42,
		OrderID:     "ORD-42",
		DealType:    models.DealTypeReviewSubmission,
		OrderedDate: datePtr(2026, 3, 5),
	}

	got := EvaluateRules([]models.NotificationRule{rule}, []models.Review{review}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "Review pending for order ORD-42 (10 days since ordered)", got[0].Message)
	assert.Equal(t, "/reviews/42", got[0].ActionURL)
	assert.Equal(t, 10, got[0].Days)
}

func TestEvaluateRulesExcludeStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rule := models.NotificationRule{
		Name:          "Refund form reminder",
		TriggerField:  models.FieldReviewSubmitDate,
		DaysAfter:     3,
		MissingField:  models.FieldRefundFormSubmittedDate,
		ExcludeStatus: models.StatusPaymentReceived,
		Type:          models.NotifyUrgent,
		Active:        true,
	}

	review := models.Review{
		OrderID:          "ORD-8",
		DealType:         models.DealTypeReviewSubmission,
		ReviewSubmitDate: datePtr(2026, 4, 1),
		Status:           models.StatusPaymentReceived,
	}
	assert.Empty(t, EvaluateRules([]models.NotificationRule{rule}, []models.Review{review}, now))

	review.Status = models.StatusReviewSubmitted
	got := EvaluateRules([]models.NotificationRule{rule}, []models.Review{review}, now)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotifyUrgent, got[0].Type)
}

func TestEvaluateRulesInactiveRule(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rule := reviewReminderRule()
	rule.Active = false

	review := models.Review{
		OrderID:     "ORD-9",
		DealType:    models.DealTypeReviewSubmission,
		OrderedDate: datePtr(2026, 1, 1),
	}
	assert.Empty(t, EvaluateRules([]models.NotificationRule{rule}, []models.Review{review}, now))
}

func TestDefaultNotificationRules(t *testing.T) {
	rules := models.DefaultNotificationRules()
	require.Len(t, rules, 4)

	byName := make(map[string]models.NotificationRule, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}

	assert.Equal(t, 7, byName["Review reminder"].DaysAfter)
	assert.Equal(t, models.NotifyUrgent, byName["Refund form reminder"].Type)
	assert.Equal(t, 45, byName["Payment follow-up"].DaysAfter)
	assert.Equal(t, 60, byName["Payment overdue"].DaysAfter)
}
