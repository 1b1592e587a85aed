package services

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	geomtw "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"perundhu/internal/models"
)

// IntegrationResult summarizes one integration run over the approved queue.
type IntegrationResult struct {
	Integrated int      `json:"integrated"`
	Linked     int      `json:"linked"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Messages   []string `json:"messages,omitempty"`
}

// Integrator moves APPROVED contributions into the published bus catalog.
// Runs are idempotent: a contribution matching an existing bus links to it
// instead of creating a second row.
type Integrator struct {
	contributions ContributionStore
	buses         BusStore
	locations     LocationStore
	resolver      *Resolver
}

func NewIntegrator(contributions ContributionStore, buses BusStore, locations LocationStore, resolver *Resolver) *Integrator {
	return &Integrator{contributions: contributions, buses: buses, locations: locations, resolver: resolver}
}

// IntegrateApproved processes everything currently in APPROVED state. A
// failure on one contribution marks that row INTEGRATION_FAILED and the run
// continues.
func (i *Integrator) IntegrateApproved() (*IntegrationResult, error) {
	approved, err := i.contributions.FindByStatus(models.StatusApproved)
	if err != nil {
		return nil, err
	}

	result := &IntegrationResult{}
	batch := i.resolver.Batch()
	for idx := range approved {
		c := &approved[idx]
		outcome, err := i.integrateOne(c, batch)
		if err != nil {
			result.Failed++
			result.Messages = append(result.Messages, fmt.Sprintf("%s: %v", c.ID, err))
			i.markStatus(c, models.StatusIntegrationFailed, err.Error())
			continue
		}
		switch outcome {
		case outcomeCreated:
			result.Integrated++
		case outcomeLinked:
			result.Linked++
		case outcomeSkipped:
			result.Skipped++
		}
	}
	log.WithFields(log.Fields{
		"integrated": result.Integrated,
		"linked":     result.Linked,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
	}).Info("integration run finished")
	return result, nil
}

// IntegrateOne processes a single contribution by id, used by the admin
// approve-and-integrate flow.
func (i *Integrator) IntegrateOne(id string) (*models.RouteContribution, error) {
	c, err := i.contributions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("contribution %s not found", id)
	}
	if c.Status != models.StatusApproved {
		return nil, fmt.Errorf("contribution %s is %s, not %s", id, c.Status, models.StatusApproved)
	}
	if _, err := i.integrateOne(c, i.resolver.Batch()); err != nil {
		i.markStatus(c, models.StatusIntegrationFailed, err.Error())
		return nil, err
	}
	return c, nil
}

type integrationOutcome int

const (
	outcomeCreated integrationOutcome = iota
	outcomeLinked
	outcomeSkipped
)

func (i *Integrator) integrateOne(c *models.RouteContribution, batch *ResolutionBatch) (integrationOutcome, error) {
	if missing := missingFields(c); missing != "" {
		i.markStatus(c, models.StatusPendingReview, "needs manual completion: missing "+missing)
		return outcomeSkipped, nil
	}

	fromRes, err := batch.Resolve(c.FromLocationName)
	if err != nil {
		return 0, err
	}
	toRes, err := batch.Resolve(c.ToLocationName)
	if err != nil {
		return 0, err
	}
	from, to := fromRes.Location, toRes.Location

	// Contributions sometimes carry device coordinates for locations the
	// geocoder never found; backfill those onto the location rows.
	i.adoptCoordinates(from, c.FromLatitude, c.FromLongitude)
	i.adoptCoordinates(to, c.ToLatitude, c.ToLongitude)

	existing, err := i.buses.FindBetween(from.ID, to.ID)
	if err != nil {
		return 0, err
	}
	for idx := range existing {
		if existing[idx].DepartureTime == c.DepartureTime {
			id := existing[idx].ID
			c.LinkedBusID = &id
			i.markStatus(c, models.StatusIntegrated, fmt.Sprintf("matched existing bus %d", id))
			return outcomeLinked, nil
		}
	}

	busNumber := c.BusNumber
	if busNumber == "" {
		busNumber, err = i.generateBusNumber(from.Name, to.Name)
		if err != nil {
			return 0, err
		}
	}

	name := c.BusName
	if name == "" {
		name = from.Name + " - " + to.Name
	}

	bus := models.Bus{
		BusNumber:      busNumber,
		Name:           name,
		FromLocationID: from.ID,
		ToLocationID:   to.ID,
		DepartureTime:  c.DepartureTime,
		ArrivalTime:    c.ArrivalTime,
		Category:       "ORDINARY",
	}

	stops, path := i.buildStops(c, batch, from, to)
	bus.Geometry = encodePath(path)

	if err := i.buses.Save(&bus); err != nil {
		return 0, err
	}
	if len(stops) > 0 {
		if err := i.buses.SaveStops(bus.ID, stops); err != nil {
			return 0, err
		}
	}

	busID := bus.ID
	c.LinkedBusID = &busID
	i.markStatus(c, models.StatusIntegrated, fmt.Sprintf("created bus %s", busNumber))
	log.WithFields(log.Fields{"bus": busNumber, "from": from.Name, "to": to.Name}).
		Info("contribution integrated")
	return outcomeCreated, nil
}

func missingFields(c *models.RouteContribution) string {
	var missing []string
	if strings.TrimSpace(c.FromLocationName) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(c.ToLocationName) == "" {
		missing = append(missing, "destination")
	}
	if c.DepartureTime == "" {
		missing = append(missing, "departure time")
	}
	if c.ArrivalTime == "" {
		missing = append(missing, "arrival time")
	}
	return strings.Join(missing, ", ")
}

// generateBusNumber builds a synthetic identifier like GEN-MAD-CHE-001 for
// contributions that never specified one.
func (i *Integrator) generateBusNumber(from, to string) (string, error) {
	prefix := fmt.Sprintf("GEN-%s-%s-", routeCode(from), routeCode(to))
	n, err := i.buses.CountByNumberPrefix(prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}

func routeCode(name string) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

func (i *Integrator) buildStops(c *models.RouteContribution, batch *ResolutionBatch, from, to *models.Location) ([]models.Stop, []geomtw.Coord) {
	var path []geomtw.Coord
	if from.HasCoordinates() {
		path = append(path, geomtw.Coord{*from.Longitude, *from.Latitude})
	}

	var stops []models.Stop
	for _, sc := range c.Stops {
		stop := models.Stop{
			Seq:           sc.Seq,
			Name:          sc.Name,
			ArrivalTime:   sc.ArrivalTime,
			DepartureTime: sc.DepartureTime,
		}
		res, err := batch.Resolve(sc.Name)
		if err == nil {
			stop.LocationID = res.Location.ID
			if sc.Latitude == nil && res.Location.HasCoordinates() {
				stop.Latitude = res.Location.Latitude
				stop.Longitude = res.Location.Longitude
			}
		}
		if sc.Latitude != nil && sc.Longitude != nil {
			stop.Latitude = sc.Latitude
			stop.Longitude = sc.Longitude
		}
		if stop.Latitude != nil && stop.Longitude != nil {
			path = append(path, geomtw.Coord{*stop.Longitude, *stop.Latitude})
		}
		stops = append(stops, stop)
	}

	if to.HasCoordinates() {
		path = append(path, geomtw.Coord{*to.Longitude, *to.Latitude})
	}
	return stops, path
}

// encodePath serializes the route path as a WKB LINESTRING, or nil when
// fewer than two points are known.
func encodePath(coords []geomtw.Coord) []byte {
	if len(coords) < 2 {
		return nil
	}
	ls := geomtw.NewLineString(geomtw.XY)
	if _, err := ls.SetCoords(coords); err != nil {
		return nil
	}
	ls.SetSRID(4326)
	data, err := wkb.Marshal(ls, wkb.NDR)
	if err != nil {
		log.WithError(err).Warn("route geometry encoding failed")
		return nil
	}
	return data
}

func (i *Integrator) adoptCoordinates(loc *models.Location, lat, lon *float64) {
	if loc.HasCoordinates() || lat == nil || lon == nil {
		return
	}
	loc.Latitude = lat
	loc.Longitude = lon
	if err := i.locations.Save(loc); err != nil {
		log.WithError(err).WithField("location", loc.Name).Warn("coordinate backfill failed")
	}
}

func (i *Integrator) markStatus(c *models.RouteContribution, status, message string) {
	now := time.Now()
	c.Status = status
	c.ValidationMessage = message
	c.ProcessedDate = &now
	if err := i.contributions.Save(c); err != nil {
		log.WithError(err).WithField("contribution", c.ID).Error("status update failed")
	}
}
