package models

import "time"

// Notification severities.
const (
	NotifyInfo    = "INFO"
	NotifyWarning = "WARNING"
	NotifyUrgent  = "URGENT"
)

// NotificationRule describes a follow-up reminder: fire when TriggerField
// was set at least DaysAfter days ago and MissingField is still empty.
// Reviews whose status matches ExcludeStatus are skipped.
type NotificationRule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	TriggerField    string    `gorm:"size:40;not null" json:"triggerField"`
	DaysAfter       int       `gorm:"not null" json:"daysAfter"`
	MissingField    string    `gorm:"size:40;not null" json:"missingField"`
	ExcludeStatus   string    `gorm:"size:30" json:"excludeStatus"`
	Type            string    `gorm:"size:10;default:WARNING" json:"type"`
	MessageTemplate string    `gorm:"size:500" json:"messageTemplate"`
	ActionURL       string    `gorm:"size:200" json:"actionUrl"`
	Active          bool      `gorm:"default:true" json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (NotificationRule) TableName() string {
	return "notification_rules"
}

// Notification is an evaluated reminder for one review.
type Notification struct {
	ReviewID  uint   `json:"reviewId"`
	OrderID   string `json:"orderId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	ActionURL string `json:"actionUrl"`
	Days      int    `json:"days"`
}

// DefaultNotificationRules are seeded at startup when the table is empty.
func DefaultNotificationRules() []NotificationRule {
	return []NotificationRule{
		{
			Name:            "Review reminder",
			TriggerField:    FieldOrderedDate,
			DaysAfter:       7,
			MissingField:    FieldReviewSubmitDate,
			Type:            NotifyWarning,
			MessageTemplate: "Review pending for order {orderId} ({days} days since ordered)",
			ActionURL:       "/reviews/{id}",
			Active:          true,
		},
		{
			Name:            "Refund form reminder",
			TriggerField:    FieldReviewSubmitDate,
			DaysAfter:       3,
			MissingField:    FieldRefundFormSubmittedDate,
			ExcludeStatus:   StatusPaymentReceived,
			Type:            NotifyUrgent,
			MessageTemplate: "Refund form not submitted for order {orderId} ({days} days since review)",
			ActionURL:       "/reviews/{id}",
			Active:          true,
		},
		{
			Name:            "Payment follow-up",
			TriggerField:    FieldRefundFormSubmittedDate,
			DaysAfter:       45,
			MissingField:    FieldPaymentReceivedDate,
			Type:            NotifyWarning,
			MessageTemplate: "Payment pending for order {orderId} ({days} days since refund form)",
			ActionURL:       "/reviews/{id}",
			Active:          true,
		},
		{
			Name:            "Payment overdue",
			TriggerField:    FieldRefundFormSubmittedDate,
			DaysAfter:       60,
			MissingField:    FieldPaymentReceivedDate,
			Type:            NotifyUrgent,
			MessageTemplate: "Payment overdue for order {orderId} ({days} days since refund form)",
			ActionURL:       "/reviews/{id}",
			Active:          true,
		},
	}
}
