package services

import (
	"perundhu/internal/geocoding"
	"perundhu/internal/models"
	"perundhu/internal/vision"
)

// LocationStore is the persistence surface the resolver and finders need.
type LocationStore interface {
	FindByName(name string) (*models.Location, error)
	FindByTamilName(name string) (*models.Location, error)
	FindByNameContaining(fragment string) ([]models.Location, error)
	FindByID(id uint) (*models.Location, error)
	Save(loc *models.Location) error
}

// BusStore is the persistence surface for the searchable bus catalog.
type BusStore interface {
	FindByID(id uint) (*models.Bus, error)
	FindBetween(fromID, toID uint) ([]models.Bus, error)
	FindDeparting(fromID uint) ([]models.Bus, error)
	FindArriving(toID uint) ([]models.Bus, error)
	CountByNumberPrefix(prefix string) (int64, error)
	Save(bus *models.Bus) error
	SaveStops(busID uint, stops []models.Stop) error
}

// ContributionStore persists route contributions.
type ContributionStore interface {
	Save(c *models.RouteContribution) error
	FindByID(id string) (*models.RouteContribution, error)
	FindByStatus(status string) ([]models.RouteContribution, error)
	FindByUser(userID string) ([]models.RouteContribution, error)
}

// ImageStore persists image contributions.
type ImageStore interface {
	Save(c *models.ImageContribution) error
	FindByID(id string) (*models.ImageContribution, error)
}

// Geocoder resolves a place name to coordinates within the service region.
type Geocoder interface {
	SearchRegion(query string) (*geocoding.Result, error)
}

// Extractor runs OCR over an uploaded image.
type Extractor interface {
	Extract(image []byte, contentType string) (*vision.Extraction, error)
}
