package services

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/geo"
	"perundhu/internal/models"
)

// RouteValidator applies geographic sanity checks to a from/to pair before a
// contribution is accepted.
type RouteValidator struct {
	maxDistanceKm float64
}

func NewRouteValidator(maxDistanceKm float64) *RouteValidator {
	return &RouteValidator{maxDistanceKm: maxDistanceKm}
}

// Validate returns a non-nil error describing why the pair is not a plausible
// bus route. Pairs where either side has no coordinates pass the distance
// check, since coordinates only arrive once a location has been geocoded.
func (v *RouteValidator) Validate(from, to *models.Location) error {
	if from == nil || to == nil {
		return fmt.Errorf("both endpoints are required")
	}
	if strings.EqualFold(strings.TrimSpace(from.Name), strings.TrimSpace(to.Name)) {
		return fmt.Errorf("origin and destination are the same location")
	}
	if from.ID != 0 && from.ID == to.ID {
		return fmt.Errorf("origin and destination are the same location")
	}

	if !from.HasCoordinates() || !to.HasCoordinates() {
		return nil
	}
	if !geo.ValidCoordinates(*from.Latitude, *from.Longitude) ||
		!geo.ValidCoordinates(*to.Latitude, *to.Longitude) {
		return fmt.Errorf("coordinates out of range")
	}

	d := geo.HaversineKm(*from.Latitude, *from.Longitude, *to.Latitude, *to.Longitude)
	if d <= 0 {
		return fmt.Errorf("route distance is zero")
	}
	if d > v.maxDistanceKm {
		log.WithFields(log.Fields{"from": from.Name, "to": to.Name, "km": d}).
			Warn("route rejected, distance over limit")
		return fmt.Errorf("route distance %.0f km exceeds %.0f km limit", d, v.maxDistanceKm)
	}
	return nil
}

// DistanceKm reports the great-circle distance of the pair, or -1 when either
// side lacks coordinates.
func (v *RouteValidator) DistanceKm(from, to *models.Location) float64 {
	if from == nil || to == nil || !from.HasCoordinates() || !to.HasCoordinates() {
		return -1
	}
	return geo.HaversineKm(*from.Latitude, *from.Longitude, *to.Latitude, *to.Longitude)
}
