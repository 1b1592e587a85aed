package models

import (
	"gorm.io/gorm"
)

// Stop is an intermediate halt on a bus route. Seq indicates order along
// the route; times are optional "HH:MM" strings.
type Stop struct {
	gorm.Model

	Name       string `json:"name" binding:"required"`
	Seq        int    `json:"seq"`
	LocationID uint   `json:"location_id"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	ArrivalTime   string `json:"arrival_time,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`

	BusID uint `json:"bus_id" gorm:"index"`
}
