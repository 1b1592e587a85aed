package models

import (
	"gorm.io/gorm"
)

// Location is a canonical named place (town, bus stand) referenced by buses.
// Coordinates stay nil until geocoding resolves them; many buses share one
// location, so locations are never deleted with a bus.
type Location struct {
	gorm.Model

	Name       string   `json:"name" gorm:"unique" binding:"required"`
	TamilName  string   `json:"tamil_name,omitempty"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// HasCoordinates reports whether the location has been geocoded.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
