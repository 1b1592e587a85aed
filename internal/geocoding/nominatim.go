package geocoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"perundhu/internal/cache"
)

// Result is a geocoded place returned by the provider.
type Result struct {
	CanonicalName string
	DisplayName   string
	Latitude      float64
	Longitude     float64
}

// ErrNotFound means the provider returned no match for the query.
var ErrNotFound = errors.New("geocoding: no match")

// NominatimClient resolves place names to coordinates via the OpenStreetMap
// Nominatim API, restricted to the service region. Nominatim's usage policy
// allows roughly one request per second, so calls are serialized and spaced
// out; results (including misses) are cached.
type NominatimClient struct {
	baseURL      string
	regionSuffix string
	httpClient   *http.Client
	results      *cache.TTL[*Result]

	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func NewNominatimClient(minInterval time.Duration) *NominatimClient {
	baseURL := os.Getenv("NOMINATIM_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/search"
	}
	region := os.Getenv("GEOCODE_REGION_SUFFIX")
	if region == "" {
		region = ", Tamil Nadu, India"
	}

	return &NominatimClient{
		baseURL:      baseURL,
		regionSuffix: region,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		results:      cache.NewTTL[*Result](24 * time.Hour),
		minInterval:  minInterval,
	}
}

type nominatimPlace struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// SearchRegion looks up a place name within the configured region. Returns
// ErrNotFound when the provider has no match; other errors indicate the
// provider was unreachable.
func (n *NominatimClient) SearchRegion(query string) (*Result, error) {
	key := cache.Key("geocode", query)
	if cached, ok := n.results.Get(key); ok {
		if cached == nil {
			return nil, ErrNotFound
		}
		return cached, nil
	}

	n.throttle()

	reqURL := fmt.Sprintf("%s?q=%s&format=json&limit=1&addressdetails=0",
		n.baseURL, url.QueryEscape(query+n.regionSuffix))

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim requires an identifying User-Agent
	req.Header.Set("User-Agent", "perundhu-backend/1.0")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Nominatim request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}

	if len(places) == 0 {
		// Cache the miss so repeated unknown names don't burn rate limit
		n.results.Set(key, nil)
		return nil, ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(places[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("geocoding: bad coordinates in response")
	}

	name := places[0].Name
	if name == "" {
		name = query
	}

	result := &Result{
		CanonicalName: name,
		DisplayName:   places[0].DisplayName,
		Latitude:      lat,
		Longitude:     lon,
	}
	n.results.Set(key, result)

	logrus.WithField("query", query).WithField("name", name).Debug("geocoded location")
	return result, nil
}

// throttle blocks until the provider's minimum request interval has passed.
func (n *NominatimClient) throttle() {
	n.mu.Lock()
	defer n.mu.Unlock()

	elapsed := time.Since(n.lastRequest)
	if elapsed < n.minInterval {
		time.Sleep(n.minInterval - elapsed)
	}
	n.lastRequest = time.Now()
}
