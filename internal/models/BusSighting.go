package models

import (
	"time"

	"gorm.io/gorm"
)

// BusSighting is a crowd-reported live position for a bus. Best-effort data:
// reports are kept for history and served to pollers while fresh.
type BusSighting struct {
	gorm.Model
	BusID  uint   `json:"bus_id" gorm:"index"`
	UserID string `json:"user_id"`

	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`

	Note       string    `json:"note,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}
