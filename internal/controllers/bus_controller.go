package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"perundhu/internal/models"
	"perundhu/internal/repository"
	"perundhu/internal/services"
)

// BusResponse mirrors models.Bus but carries the route path as a GeoJSON
// string instead of WKB bytes.
type BusResponse struct {
	ID            uint            `json:"ID"`
	CreatedAt     time.Time       `json:"CreatedAt"`
	UpdatedAt     time.Time       `json:"UpdatedAt"`
	BusNumber     string          `json:"bus_number"`
	Name          string          `json:"name"`
	FromLocation  models.Location `json:"from_location"`
	ToLocation    models.Location `json:"to_location"`
	DepartureTime string          `json:"departure_time"`
	ArrivalTime   string          `json:"arrival_time"`
	Category      string          `json:"category"`
	Geometry      string          `json:"geometry,omitempty"`
	Stops         []models.Stop   `json:"stops,omitempty"`
}

func toBusResponse(bus models.Bus) BusResponse {
	jsonGeom, err := convertWKBToGeoJSON(bus.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("bus", bus.ID).Warn("stored geometry not decodable")
	}
	return BusResponse{
		ID:            bus.ID,
		CreatedAt:     bus.CreatedAt,
		UpdatedAt:     bus.UpdatedAt,
		BusNumber:     bus.BusNumber,
		Name:          bus.Name,
		FromLocation:  bus.FromLocation,
		ToLocation:    bus.ToLocation,
		DepartureTime: bus.DepartureTime,
		ArrivalTime:   bus.ArrivalTime,
		Category:      bus.Category,
		Geometry:      jsonGeom,
		Stops:         bus.Stops,
	}
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string.
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BusController struct {
	buses     *repository.BusRepo
	locations *repository.LocationRepo
	finder    *services.ConnectingRouteFinder
}

func NewBusController(db *gorm.DB, finder *services.ConnectingRouteFinder) *BusController {
	return &BusController{
		buses:     repository.NewBusRepo(db),
		locations: repository.NewLocationRepo(db),
		finder:    finder,
	}
}

// SearchBuses answers GET /buses/search?from=&to=. Direct services come
// first; when there are none, single-transfer suggestions fill in.
func (bc *BusController) SearchBuses(c *gin.Context) {
	fromName := strings.TrimSpace(c.Query("from"))
	toName := strings.TrimSpace(c.Query("to"))
	if fromName == "" || toName == "" {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_PARAMS", "from and to query parameters are required"))
		return
	}

	from, err := bc.lookupLocation(fromName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	to, err := bc.lookupLocation(toName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if from == nil || to == nil {
		c.JSON(http.StatusOK, gin.H{
			"direct":     []BusResponse{},
			"connecting": []services.ConnectingRoute{},
			"message":    "one or both locations are not known yet",
		})
		return
	}

	direct, err := bc.buses.FindBetween(from.ID, to.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}

	directResponses := make([]BusResponse, 0, len(direct))
	for _, b := range direct {
		directResponses = append(directResponses, toBusResponse(b))
	}

	connecting := []services.ConnectingRoute{}
	if len(direct) == 0 {
		connecting, err = bc.finder.Find(from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
			return
		}
		if connecting == nil {
			connecting = []services.ConnectingRoute{}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"direct":     directResponses,
		"connecting": connecting,
	})
}

// ConnectingBuses answers GET /buses/connecting?from=&to= with transfer
// itineraries only, whether or not a direct bus exists.
func (bc *BusController) ConnectingBuses(c *gin.Context) {
	from, err := bc.lookupLocation(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	to, err := bc.lookupLocation(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if from == nil || to == nil {
		c.JSON(http.StatusNotFound, errorBody("UNKNOWN_LOCATION", "one or both locations are not known"))
		return
	}

	routes, err := bc.finder.Find(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if routes == nil {
		routes = []services.ConnectingRoute{}
	}
	c.JSON(http.StatusOK, gin.H{"connecting": routes})
}

// GetBus answers GET /buses/:id.
func (bc *BusController) GetBus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_ID", "invalid bus id"))
		return
	}
	bus, err := bc.buses.FindByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if bus == nil {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "bus not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bus": toBusResponse(*bus)})
}

// Destinations answers GET /locations/destinations?from= with the distinct
// places directly reachable from the given origin.
func (bc *BusController) Destinations(c *gin.Context) {
	from, err := bc.lookupLocation(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}
	if from == nil {
		c.JSON(http.StatusOK, gin.H{"data": []models.Location{}})
		return
	}

	departing, err := bc.buses.FindDeparting(from.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", err.Error()))
		return
	}

	seen := make(map[uint]bool)
	destinations := []models.Location{}
	for _, b := range departing {
		if seen[b.ToLocationID] {
			continue
		}
		seen[b.ToLocationID] = true
		destinations = append(destinations, b.ToLocation)
	}
	c.JSON(http.StatusOK, gin.H{"data": destinations})
}

// lookupLocation is the read-only cousin of the contribution resolver:
// searches never create location rows.
func (bc *BusController) lookupLocation(name string) (*models.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}
	for _, candidate := range []string{trimmed, services.NormalizePlaceName(trimmed), strings.ToUpper(trimmed)} {
		loc, err := bc.locations.FindByName(candidate)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			return loc, nil
		}
	}
	matches, err := bc.locations.FindByNameContaining(services.NormalizePlaceName(trimmed))
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return &matches[0], nil
	}
	return nil, nil
}
