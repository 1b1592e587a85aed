package services

import "testing"

func TestNormalizePlaceName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"madurai", "Madurai"},
		{"MADURAI", "Madurai"},
		{"  sivakasi  ", "Sivakasi"},
		{"chennai egmore", "Chennai Egmore"},
		{"kovil-patti", "Kovil-Patti"},
		{"Madurai", "Madurai"},
		// already-cased names are kept as typed
		{"McDonald Kovil", "McDonald Kovil"},
		{"Thoothukudi SIPCOT", "Thoothukudi SIPCOT"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizePlaceName(c.in); got != c.want {
			t.Errorf("NormalizePlaceName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveExact(t *testing.T) {
	store := newFakeLocationStore()
	store.seed("Madurai", 9.9252, 78.1198)
	r := NewResolver(store, nil)

	res, err := r.Resolve("Madurai")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionExact {
		t.Fatalf("status = %s, want %s", res.Status, ResolutionExact)
	}
	if res.Location.Name != "Madurai" {
		t.Fatalf("resolved %q", res.Location.Name)
	}
}

func TestResolveNormalized(t *testing.T) {
	store := newFakeLocationStore()
	store.seed("Madurai", 9.9252, 78.1198)
	r := NewResolver(store, nil)

	for _, in := range []string{"madurai", "MADURAI", "  madurai "} {
		res, err := r.Resolve(in)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != ResolutionFuzzy {
			t.Errorf("Resolve(%q) status = %s, want %s", in, res.Status, ResolutionFuzzy)
		}
		if res.Location.Name != "Madurai" {
			t.Errorf("Resolve(%q) hit %q", in, res.Location.Name)
		}
	}
}

func TestResolveUppercaseRow(t *testing.T) {
	store := newFakeLocationStore()
	store.seed("SIPCOT", 8.76, 78.13)
	r := NewResolver(store, nil)

	res, err := r.Resolve("sipcot")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionFuzzy || res.Location.Name != "SIPCOT" {
		t.Fatalf("got %s %q", res.Status, res.Location.Name)
	}
}

func TestResolveSubstringPicksShortest(t *testing.T) {
	store := newFakeLocationStore()
	store.seed("Madurai Periyar Bus Stand", 9.92, 78.11)
	store.seed("Madurai Junction", 9.91, 78.12)
	r := NewResolver(store, nil)

	res, err := r.Resolve("madur")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionFuzzy {
		t.Fatalf("status = %s", res.Status)
	}
	if res.Location.Name != "Madurai Junction" {
		t.Fatalf("partial match picked %q, want shortest name", res.Location.Name)
	}
}

func TestResolveGeocodes(t *testing.T) {
	store := newFakeLocationStore()
	geo := newFakeGeocoder()
	geo.know("Sivakasi", 9.4533, 77.7978)
	r := NewResolver(store, geo)

	res, err := r.Resolve("sivakasi")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionGeocoded {
		t.Fatalf("status = %s, want %s", res.Status, ResolutionGeocoded)
	}
	if !res.Location.HasCoordinates() {
		t.Fatal("geocoded location has no coordinates")
	}

	// the created row must resolve exactly on the next submission
	again, err := r.Resolve("Sivakasi")
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != ResolutionExact {
		t.Fatalf("second resolve status = %s, want %s", again.Status, ResolutionExact)
	}
	if again.Location.ID != res.Location.ID {
		t.Fatal("second resolve created a different row")
	}
}

func TestResolveCreatesWithoutCoordinates(t *testing.T) {
	store := newFakeLocationStore()
	r := NewResolver(store, newFakeGeocoder())

	res, err := r.Resolve("pudur junction")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionCreated {
		t.Fatalf("status = %s, want %s", res.Status, ResolutionCreated)
	}
	if res.Location.Name != "Pudur Junction" {
		t.Fatalf("created %q", res.Location.Name)
	}
	if res.Location.HasCoordinates() {
		t.Fatal("unexpected coordinates")
	}
}

func TestBatchCachesGeocoderCalls(t *testing.T) {
	store := newFakeLocationStore()
	geo := newFakeGeocoder()
	geo.know("Sivakasi", 9.4533, 77.7978)
	batch := NewResolver(store, geo).Batch()

	for _, in := range []string{"sivakasi", "Sivakasi", "SIVAKASI  "} {
		if _, err := batch.Resolve(in); err != nil {
			t.Fatal(err)
		}
	}
	if geo.calls != 1 {
		t.Fatalf("geocoder called %d times inside one batch, want 1", geo.calls)
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := NewResolver(newFakeLocationStore(), nil)
	if _, err := r.Resolve("   "); err != ErrEmptyPlaceName {
		t.Fatalf("err = %v, want ErrEmptyPlaceName", err)
	}
}

func TestResolveTamilMatchesEnglishRow(t *testing.T) {
	store := newFakeLocationStore()
	store.seed("Sivakasi", 9.4533, 77.7978)
	r := NewResolver(store, nil)

	res, err := r.Resolve("சிவகாசி")
	if err != nil {
		t.Fatal(err)
	}
	if res.Location.Name != "Sivakasi" {
		t.Fatalf("resolved %q", res.Location.Name)
	}
	if res.Location.TamilName != "சிவகாசி" {
		t.Fatalf("tamil spelling not recorded: %q", res.Location.TamilName)
	}

	// the recorded spelling makes the second resolve a direct hit
	again, err := r.Resolve("சிவகாசி")
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != ResolutionExact || again.Location.ID != res.Location.ID {
		t.Fatalf("second resolve: status %s, id %d", again.Status, again.Location.ID)
	}
}

func TestResolveTamilUnknownCreatesAsTyped(t *testing.T) {
	store := newFakeLocationStore()
	r := NewResolver(store, nil)

	res, err := r.Resolve("தெரியாத ஊர்")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionCreated {
		t.Fatalf("status = %s", res.Status)
	}
	if res.Location.Name != "தெரியாத ஊர்" || res.Location.TamilName != "தெரியாத ஊர்" {
		t.Fatalf("untranslatable name mangled: %q / %q", res.Location.Name, res.Location.TamilName)
	}
}

func TestResolveCreatesWithTamilSpelling(t *testing.T) {
	store := newFakeLocationStore()
	r := NewResolver(store, nil)

	res, err := r.Resolve("madurai")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ResolutionCreated {
		t.Fatalf("status = %s", res.Status)
	}
	if res.Location.Name != "Madurai" || res.Location.TamilName != "மதுரை" {
		t.Fatalf("created row missing bilingual names: %q / %q", res.Location.Name, res.Location.TamilName)
	}
}
