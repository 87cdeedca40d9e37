package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScannedTree is one committed scan. Rows are immutable: the app never
// updates or deletes them, the leaderboard aggregates over them.
type ScannedTree struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TreeName       string    `gorm:"size:100;not null" json:"tree_name"`
	ScientificName string    `gorm:"size:150;not null" json:"scientific_name"`
	CarbonScore    int       `gorm:"not null" json:"carbon_score"`
	ImageURL       *string   `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
