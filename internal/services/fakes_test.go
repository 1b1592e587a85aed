package services

import (
	"strings"
	"sync"

	"perundhu/internal/geocoding"
	"perundhu/internal/models"
	"perundhu/internal/vision"
)

type fakeLocationStore struct {
	mu           sync.Mutex
	nextID       uint
	byName       map[string]*models.Location
	tamilLookups int
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{byName: make(map[string]*models.Location)}
}

func (s *fakeLocationStore) seed(name string, lat, lon float64) *models.Location {
	loc := &models.Location{Name: name, Latitude: &lat, Longitude: &lon}
	s.Save(loc)
	return loc
}

func (s *fakeLocationStore) FindByName(name string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc, ok := s.byName[name]; ok {
		copy := *loc
		return &copy, nil
	}
	return nil, nil
}

func (s *fakeLocationStore) FindByTamilName(name string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tamilLookups++
	for _, loc := range s.byName {
		if loc.TamilName == name {
			copy := *loc
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeLocationStore) FindByNameContaining(fragment string) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Location
	for _, loc := range s.byName {
		if strings.Contains(strings.ToLower(loc.Name), strings.ToLower(fragment)) {
			out = append(out, *loc)
		}
	}
	// shortest name first, ties alphabetical, same order the real query uses
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if len(b.Name) < len(a.Name) || (len(b.Name) == len(a.Name) && b.Name < a.Name) {
				out[j-1], out[j] = b, a
			}
		}
	}
	return out, nil
}

func (s *fakeLocationStore) FindByID(id uint) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range s.byName {
		if loc.ID == id {
			copy := *loc
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeLocationStore) Save(loc *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc.ID == 0 {
		s.nextID++
		loc.ID = s.nextID
	}
	stored := *loc
	s.byName[loc.Name] = &stored
	return nil
}

type fakeBusStore struct {
	mu     sync.Mutex
	nextID uint
	buses  []*models.Bus
	stops  map[uint][]models.Stop
}

func newFakeBusStore() *fakeBusStore {
	return &fakeBusStore{stops: make(map[uint][]models.Stop)}
}

func (s *fakeBusStore) FindByID(id uint) (*models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buses {
		if b.ID == id {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeBusStore) FindBetween(fromID, toID uint) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bus
	for _, b := range s.buses {
		if b.FromLocationID == fromID && b.ToLocationID == toID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBusStore) FindDeparting(fromID uint) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bus
	for _, b := range s.buses {
		if b.FromLocationID == fromID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBusStore) FindArriving(toID uint) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bus
	for _, b := range s.buses {
		if b.ToLocationID == toID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBusStore) CountByNumberPrefix(prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, b := range s.buses {
		if strings.HasPrefix(b.BusNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (s *fakeBusStore) Save(bus *models.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bus.ID == 0 {
		s.nextID++
		bus.ID = s.nextID
	}
	for i, b := range s.buses {
		if b.ID == bus.ID {
			stored := *bus
			s.buses[i] = &stored
			return nil
		}
	}
	stored := *bus
	s.buses = append(s.buses, &stored)
	return nil
}

func (s *fakeBusStore) SaveStops(busID uint, stops []models.Stop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops[busID] = append([]models.Stop(nil), stops...)
	return nil
}

type fakeContributionStore struct {
	mu   sync.Mutex
	rows map[string]*models.RouteContribution
}

func newFakeContributionStore() *fakeContributionStore {
	return &fakeContributionStore{rows: make(map[string]*models.RouteContribution)}
}

func (s *fakeContributionStore) Save(c *models.RouteContribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	s.rows[c.ID] = &stored
	return nil
}

func (s *fakeContributionStore) FindByID(id string) (*models.RouteContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.rows[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, nil
}

func (s *fakeContributionStore) FindByStatus(status string) ([]models.RouteContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RouteContribution
	for _, c := range s.rows {
		if c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeContributionStore) FindByUser(userID string) ([]models.RouteContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RouteContribution
	for _, c := range s.rows {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeImageStore struct {
	mu   sync.Mutex
	rows map[string]*models.ImageContribution
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{rows: make(map[string]*models.ImageContribution)}
}

func (s *fakeImageStore) Save(c *models.ImageContribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	s.rows[c.ID] = &stored
	return nil
}

func (s *fakeImageStore) FindByID(id string) (*models.ImageContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.rows[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, nil
}

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]*geocoding.Result
	calls   int
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{results: make(map[string]*geocoding.Result)}
}

func (g *fakeGeocoder) know(name string, lat, lon float64) {
	g.results[name] = &geocoding.Result{CanonicalName: name, Latitude: lat, Longitude: lon}
}

func (g *fakeGeocoder) SearchRegion(query string) (*geocoding.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if r, ok := g.results[query]; ok {
		return r, nil
	}
	return nil, geocoding.ErrNotFound
}

type fakeExtractor struct {
	extraction *vision.Extraction
	err        error
}

func (e *fakeExtractor) Extract(image []byte, contentType string) (*vision.Extraction, error) {
	return e.extraction, e.err
}
