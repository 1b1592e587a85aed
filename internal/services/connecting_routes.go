package services

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/geo"
	"perundhu/internal/models"
)

const maxConnectingRoutes = 10

// ConnectingRoute is a two-leg journey through a single transfer point.
type ConnectingRoute struct {
	FirstLeg     models.Bus      `json:"first_leg"`
	SecondLeg    models.Bus      `json:"second_leg"`
	Transfer     models.Location `json:"transfer"`
	WaitMinutes  int             `json:"wait_minutes"`
	TotalMinutes int             `json:"total_minutes"`
	DistanceKm   float64         `json:"distance_km,omitempty"`
}

// ConnectingRouteFinder suggests one-transfer itineraries when no direct bus
// serves a from/to pair.
type ConnectingRouteFinder struct {
	buses             BusStore
	minConnectionTime time.Duration
}

func NewConnectingRouteFinder(buses BusStore, minConnectionTime time.Duration) *ConnectingRouteFinder {
	return &ConnectingRouteFinder{buses: buses, minConnectionTime: minConnectionTime}
}

// Find pairs every bus leaving the origin with every bus reaching the
// destination from the first leg's endpoint, keeping pairs where the second
// leg departs at or after the first leg arrives. Results are sorted by total
// journey time and capped.
func (f *ConnectingRouteFinder) Find(from, to *models.Location) ([]ConnectingRoute, error) {
	if from == nil || to == nil || from.ID == to.ID {
		return nil, nil
	}

	outbound, err := f.buses.FindDeparting(from.ID)
	if err != nil {
		return nil, err
	}
	inbound, err := f.buses.FindArriving(to.ID)
	if err != nil {
		return nil, err
	}

	byTransfer := make(map[uint][]models.Bus)
	for _, leg := range inbound {
		if leg.FromLocationID == from.ID {
			continue // that's a direct bus, not a connection
		}
		byTransfer[leg.FromLocationID] = append(byTransfer[leg.FromLocationID], leg)
	}

	minWait := int(f.minConnectionTime.Minutes())
	var routes []ConnectingRoute
	for _, leg1 := range outbound {
		if leg1.ToLocationID == to.ID {
			continue
		}
		for _, leg2 := range byTransfer[leg1.ToLocationID] {
			route, ok := f.connect(leg1, leg2, minWait)
			if ok {
				routes = append(routes, route)
			}
		}
	}

	sort.Slice(routes, func(a, b int) bool {
		return routes[a].TotalMinutes < routes[b].TotalMinutes
	})
	if len(routes) > maxConnectingRoutes {
		routes = routes[:maxConnectingRoutes]
	}
	log.WithFields(log.Fields{"from": from.Name, "to": to.Name, "found": len(routes)}).
		Debug("connecting route search")
	return routes, nil
}

func (f *ConnectingRouteFinder) connect(leg1, leg2 models.Bus, minWait int) (ConnectingRoute, bool) {
	arr1, err := MinutesOfDay(leg1.ArrivalTime)
	if err != nil {
		return ConnectingRoute{}, false
	}
	dep2, err := MinutesOfDay(leg2.DepartureTime)
	if err != nil {
		return ConnectingRoute{}, false
	}
	wait := dep2 - arr1
	if wait < minWait {
		return ConnectingRoute{}, false
	}

	leg1Minutes, err := tripMinutes(leg1.DepartureTime, leg1.ArrivalTime)
	if err != nil {
		return ConnectingRoute{}, false
	}
	leg2Minutes, err := tripMinutes(leg2.DepartureTime, leg2.ArrivalTime)
	if err != nil {
		return ConnectingRoute{}, false
	}

	route := ConnectingRoute{
		FirstLeg:     leg1,
		SecondLeg:    leg2,
		Transfer:     leg1.ToLocation,
		WaitMinutes:  wait,
		TotalMinutes: leg1Minutes + wait + leg2Minutes,
	}

	if leg1.FromLocation.HasCoordinates() && leg1.ToLocation.HasCoordinates() {
		route.DistanceKm = geo.HaversineKm(
			*leg1.FromLocation.Latitude, *leg1.FromLocation.Longitude,
			*leg1.ToLocation.Latitude, *leg1.ToLocation.Longitude)
		if leg2.ToLocation.HasCoordinates() {
			route.DistanceKm += geo.HaversineKm(
				*leg1.ToLocation.Latitude, *leg1.ToLocation.Longitude,
				*leg2.ToLocation.Latitude, *leg2.ToLocation.Longitude)
		}
	}
	return route, true
}
