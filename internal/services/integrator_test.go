package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"perundhu/internal/models"
)

type integratorFixture struct {
	integrator    *Integrator
	contributions *fakeContributionStore
	buses         *fakeBusStore
	locations     *fakeLocationStore
}

func newIntegratorFixture() *integratorFixture {
	locations := newFakeLocationStore()
	buses := newFakeBusStore()
	contributions := newFakeContributionStore()
	resolver := NewResolver(locations, nil)
	return &integratorFixture{
		integrator:    NewIntegrator(contributions, buses, locations, resolver),
		contributions: contributions,
		buses:         buses,
		locations:     locations,
	}
}

func approvedContribution(busNumber string) *models.RouteContribution {
	return &models.RouteContribution{
		ID:               uuid.NewString(),
		UserID:           "user-1",
		BusNumber:        busNumber,
		FromLocationName: "Madurai",
		ToLocationName:   "Trichy",
		DepartureTime:    "06:00",
		ArrivalTime:      "08:30",
		Status:           models.StatusApproved,
		SubmissionDate:   time.Now(),
	}
}

func TestIntegrateCreatesBus(t *testing.T) {
	f := newIntegratorFixture()
	c := approvedContribution("45G")
	f.contributions.Save(c)

	result, err := f.integrator.IntegrateApproved()
	if err != nil {
		t.Fatal(err)
	}
	if result.Integrated != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(f.buses.buses) != 1 {
		t.Fatalf("got %d buses", len(f.buses.buses))
	}
	bus := f.buses.buses[0]
	if bus.BusNumber != "45G" || bus.DepartureTime != "06:00" || bus.ArrivalTime != "08:30" {
		t.Fatalf("bus = %+v", bus)
	}

	updated, _ := f.contributions.FindByID(c.ID)
	if updated.Status != models.StatusIntegrated {
		t.Fatalf("contribution status = %s", updated.Status)
	}
	if updated.LinkedBusID == nil || *updated.LinkedBusID != bus.ID {
		t.Fatal("contribution not linked to created bus")
	}
	if updated.ProcessedDate == nil {
		t.Fatal("processed date not set")
	}
}

func TestIntegrateTwiceLinksInsteadOfDuplicating(t *testing.T) {
	f := newIntegratorFixture()
	f.contributions.Save(approvedContribution("45G"))
	if _, err := f.integrator.IntegrateApproved(); err != nil {
		t.Fatal(err)
	}

	// an equivalent contribution approved later must link, not clone
	second := approvedContribution("45G")
	f.contributions.Save(second)
	result, err := f.integrator.IntegrateApproved()
	if err != nil {
		t.Fatal(err)
	}
	if result.Linked != 1 || result.Integrated != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(f.buses.buses) != 1 {
		t.Fatalf("got %d buses, want 1", len(f.buses.buses))
	}

	updated, _ := f.contributions.FindByID(second.ID)
	if updated.Status != models.StatusIntegrated || updated.LinkedBusID == nil {
		t.Fatalf("second contribution = %+v", updated)
	}
}

func TestIntegrateGeneratesBusNumbers(t *testing.T) {
	f := newIntegratorFixture()
	a := approvedContribution("")
	f.contributions.Save(a)
	if _, err := f.integrator.IntegrateApproved(); err != nil {
		t.Fatal(err)
	}

	b := approvedContribution("")
	b.DepartureTime = "09:00"
	f.contributions.Save(b)
	if _, err := f.integrator.IntegrateApproved(); err != nil {
		t.Fatal(err)
	}

	var numbers []string
	for _, bus := range f.buses.buses {
		numbers = append(numbers, bus.BusNumber)
	}
	want := map[string]bool{"GEN-MAD-TRI-001": false, "GEN-MAD-TRI-002": false}
	for _, n := range numbers {
		if _, ok := want[n]; !ok {
			t.Fatalf("unexpected generated number %q in %v", n, numbers)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("missing generated number %q", n)
		}
	}
}

func TestIntegrateIncompleteGoesToReview(t *testing.T) {
	f := newIntegratorFixture()
	c := approvedContribution("45G")
	c.ArrivalTime = ""
	f.contributions.Save(c)

	result, err := f.integrator.IntegrateApproved()
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Integrated != 0 {
		t.Fatalf("result = %+v", result)
	}

	updated, _ := f.contributions.FindByID(c.ID)
	if updated.Status != models.StatusPendingReview {
		t.Fatalf("status = %s, want %s", updated.Status, models.StatusPendingReview)
	}
	if !strings.Contains(updated.ValidationMessage, "arrival") {
		t.Fatalf("message = %q", updated.ValidationMessage)
	}
	if len(f.buses.buses) != 0 {
		t.Fatal("incomplete contribution produced a bus")
	}
}

func TestIntegrateBuildsGeometry(t *testing.T) {
	f := newIntegratorFixture()
	f.locations.seed("Madurai", 9.9252, 78.1198)
	f.locations.seed("Trichy", 10.7905, 78.7047)
	f.contributions.Save(approvedContribution("45G"))

	if _, err := f.integrator.IntegrateApproved(); err != nil {
		t.Fatal(err)
	}
	if len(f.buses.buses) != 1 {
		t.Fatal("bus not created")
	}
	if len(f.buses.buses[0].Geometry) == 0 {
		t.Fatal("no geometry encoded for a fully geocoded route")
	}
}

func TestIntegrateBackfillsCoordinates(t *testing.T) {
	f := newIntegratorFixture()
	lat, lon := 9.9252, 78.1198
	c := approvedContribution("45G")
	c.FromLatitude, c.FromLongitude = &lat, &lon
	f.contributions.Save(c)

	if _, err := f.integrator.IntegrateApproved(); err != nil {
		t.Fatal(err)
	}
	from, _ := f.locations.FindByName("Madurai")
	if from == nil || !from.HasCoordinates() {
		t.Fatal("contributed coordinates not backfilled onto the location")
	}
}

func TestIntegrateOneRejectsWrongStatus(t *testing.T) {
	f := newIntegratorFixture()
	c := approvedContribution("45G")
	c.Status = models.StatusPending
	f.contributions.Save(c)

	if _, err := f.integrator.IntegrateOne(c.ID); err == nil {
		t.Fatal("pending contribution integrated without approval")
	}
}
