package models

import (
	"encoding/json"
	"time"
)

// History event types.
const (
	HistoryCreate      = "CREATE"
	HistoryUpdate      = "UPDATE"
	HistoryDelete      = "DELETE"
	HistoryClone       = "CLONE"
	HistoryCopy        = "COPY"
	HistoryAdvance     = "ADVANCE"
	HistoryBulkAdvance = "BULK_ADVANCE"
	HistoryBulkUpdate  = "BULK_UPDATE"
	HistoryImport      = "IMPORT"
)

// FieldChange records one field transition inside a history event.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ReviewHistory is the audit trail for a review.
type ReviewHistory struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	ReviewID uint            `gorm:"index;not null" json:"reviewId"`
	Type     string          `gorm:"size:20;not null" json:"type"`
	Note     string          `gorm:"size:500" json:"note"`
	Changes  json.RawMessage `gorm:"type:jsonb" json:"changes"`
	At       time.Time       `gorm:"autoCreateTime" json:"at"`
}

func (ReviewHistory) TableName() string {
	return "review_history"
}

// NewHistory builds a history row with the given changes serialized.
func NewHistory(reviewID uint, eventType, note string, changes []FieldChange) ReviewHistory {
	h := ReviewHistory{ReviewID: reviewID, Type: eventType, Note: note, At: time.Now()}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err == nil {
			h.Changes = data
		}
	}
	return h
}
