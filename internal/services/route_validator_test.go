package services

import (
	"strings"
	"testing"

	"perundhu/internal/models"
)

func loc(name string, lat, lon float64) *models.Location {
	return &models.Location{Name: name, Latitude: &lat, Longitude: &lon}
}

func TestValidateAcceptsPlausibleRoute(t *testing.T) {
	v := NewRouteValidator(1000)
	from := loc("Sivakasi", 9.4533, 77.7978)
	to := loc("Madurai", 9.9252, 78.1198)
	if err := v.Validate(from, to); err != nil {
		t.Fatalf("plausible route rejected: %v", err)
	}
}

func TestValidateRejectsSelfLoop(t *testing.T) {
	v := NewRouteValidator(1000)
	a := loc("Madurai", 9.9252, 78.1198)
	b := loc("madurai ", 9.9252, 78.1198)
	if err := v.Validate(a, b); err == nil {
		t.Fatal("self-loop accepted")
	}
}

func TestValidateRejectsOverDistance(t *testing.T) {
	v := NewRouteValidator(1000)
	chennai := loc("Chennai", 13.0827, 80.2707)
	london := loc("London", 51.5072, -0.1276)
	err := v.Validate(chennai, london)
	if err == nil {
		t.Fatal("8000+ km route accepted")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("unexpected reason: %v", err)
	}
}

func TestValidatePassesWithoutCoordinates(t *testing.T) {
	v := NewRouteValidator(1000)
	from := &models.Location{Name: "Pudur"}
	to := loc("Madurai", 9.9252, 78.1198)
	if err := v.Validate(from, to); err != nil {
		t.Fatalf("coordinate-less pair rejected: %v", err)
	}
}

func TestValidateRejectsZeroDistance(t *testing.T) {
	v := NewRouteValidator(1000)
	a := loc("Stand A", 9.9252, 78.1198)
	b := loc("Stand B", 9.9252, 78.1198)
	if err := v.Validate(a, b); err == nil {
		t.Fatal("zero-distance route accepted")
	}
}

func TestValidateRejectsOutOfRangeCoordinates(t *testing.T) {
	v := NewRouteValidator(1000)
	a := loc("Bad", 95.0, 78.0)
	b := loc("Madurai", 9.9252, 78.1198)
	if err := v.Validate(a, b); err == nil {
		t.Fatal("latitude 95 accepted")
	}
}

func TestConfigurableLimit(t *testing.T) {
	v := NewRouteValidator(50)
	from := loc("Sivakasi", 9.4533, 77.7978)
	to := loc("Madurai", 9.9252, 78.1198) // ~64 km away
	if err := v.Validate(from, to); err == nil {
		t.Fatal("route over the configured 50 km limit accepted")
	}
}
