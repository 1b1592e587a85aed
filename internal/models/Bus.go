package models

import (
	"gorm.io/gorm"
)

// Bus represents a published, searchable scheduled service between two
// locations. Rows are created by contribution integration or admin entry;
// schedule fields are never mutated afterwards.
type Bus struct {
	gorm.Model

	BusNumber string `json:"bus_number" gorm:"index"`
	Name      string `json:"name"`

	FromLocationID uint     `json:"from_location_id" gorm:"index"`
	FromLocation   Location `json:"from_location" gorm:"foreignKey:FromLocationID"`
	ToLocationID   uint     `json:"to_location_id" gorm:"index"`
	ToLocation     Location `json:"to_location" gorm:"foreignKey:ToLocationID"`

	// Time of day in "HH:MM" (24h). Stored as text since contributions
	// arrive in mixed formats and are normalized before persistence.
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`

	Category string `json:"category"` // "ORDINARY", "EXPRESS", "DELUXE", ...

	// Route path stored as a WKB LINESTRING (SRID 4326), built from the
	// geocoded stops at integration time. Exposed as GeoJSON in responses.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	Stops []Stop `gorm:"foreignKey:BusID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stops,omitempty"`
}
