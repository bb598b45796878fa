package models

import (
	"net/url"
	"strings"
	"time"
)

// Platform is a marketplace where orders are placed (Amazon, Flipkart, ...).
type Platform struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Platform) TableName() string {
	return "platforms"
}

// Mediator is the middleman coordinating a deal and paying the refund.
type Mediator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Mediator) TableName() string {
	return "mediators"
}

// WhatsAppLink returns a wa.me deep link for the mediator's phone, or ""
// when no phone is stored. Non-digit characters are stripped.
func (m *Mediator) WhatsAppLink(message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m.Phone)
	if digits == "" {
		return ""
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}
