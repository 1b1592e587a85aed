package config

import (
	"os"
	"strconv"
	"time"
)

// Settings carries the tunable policy parameters for contribution
// processing. Defaults match the service's regional scope; override via env
// vars for other deployments.
type Settings struct {
	// MaxRouteDistanceKm rejects routes with endpoints further apart than
	// this great-circle distance.
	MaxRouteDistanceKm float64

	// MinLocationNameLen rejects from/to names shorter than this after
	// normalization (guards against OCR noise).
	MinLocationNameLen int

	// DuplicateWindow is how long a contribution fingerprint counts as a
	// duplicate.
	DuplicateWindow time.Duration

	// MinConnectionTime is the minimum transfer wait accepted when
	// building connecting routes.
	MinConnectionTime time.Duration

	// GeocodeInterval is the minimum gap between external geocoding
	// requests (provider rate limit).
	GeocodeInterval time.Duration

	// OCRWorkers is the size of the image-processing worker pool.
	OCRWorkers int

	// OCRShutdownGrace is how long in-flight OCR jobs may finish during
	// shutdown before being cancelled.
	OCRShutdownGrace time.Duration

	// SightingFreshness is how long a crowd bus-location report is served
	// to pollers.
	SightingFreshness time.Duration
}

// LoadSettings reads policy parameters from the environment with defaults.
func LoadSettings() Settings {
	return Settings{
		MaxRouteDistanceKm: getEnvFloat("MAX_ROUTE_DISTANCE_KM", 1000),
		MinLocationNameLen: getEnvInt("MIN_LOCATION_NAME_LEN", 4),
		DuplicateWindow:    getEnvDuration("DUPLICATE_WINDOW", 24*time.Hour),
		MinConnectionTime:  getEnvDuration("MIN_CONNECTION_TIME", 0),
		GeocodeInterval:    getEnvDuration("GEOCODE_INTERVAL", 1100*time.Millisecond),
		OCRWorkers:         getEnvInt("OCR_WORKERS", 5),
		OCRShutdownGrace:   getEnvDuration("OCR_SHUTDOWN_GRACE", 30*time.Second),
		SightingFreshness:  getEnvDuration("SIGHTING_FRESHNESS", 30*time.Minute),
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
