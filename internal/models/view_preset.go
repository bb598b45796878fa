package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ViewPreset is a saved table configuration (filters, sort, visible
// columns). A shared preset is reachable read-only through its slug.
type ViewPreset struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Config    json.RawMessage `gorm:"type:jsonb" json:"config"`
	Shared    bool            `gorm:"default:false" json:"shared"`
	Slug      string          `gorm:"uniqueIndex;size:20" json:"slug"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (ViewPreset) TableName() string {
	return "view_presets"
}

// NewShareSlug generates a short opaque slug for shared links.
func NewShareSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}
