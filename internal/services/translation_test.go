package services

import (
	"testing"
)

func TestIsTamilText(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"சிவகாசி", true},
		{"சிவகாசி to Madurai", true},
		{"Madurai", false},
		{"", false},
		{"45G 06:00", false},
	}
	for _, tc := range cases {
		if got := IsTamilText(tc.text); got != tc.want {
			t.Errorf("IsTamilText(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestEnglishForStaticMapping(t *testing.T) {
	tr := NewLocationTranslator(newFakeLocationStore())

	english, ok := tr.EnglishFor("சிவகாசி")
	if !ok || english != "Sivakasi" {
		t.Fatalf("EnglishFor = %q, %v", english, ok)
	}
	if _, ok := tr.EnglishFor("no such place"); ok {
		t.Fatal("translated a name not in any mapping")
	}
}

func TestTamilForStaticMapping(t *testing.T) {
	tr := NewLocationTranslator(newFakeLocationStore())

	tamil, ok := tr.TamilFor("Madurai")
	if !ok || tamil != "மதுரை" {
		t.Fatalf("TamilFor = %q, %v", tamil, ok)
	}
	// static lookup is case-insensitive
	if tamil, _ := tr.TamilFor("madurai"); tamil != "மதுரை" {
		t.Fatalf("case-insensitive TamilFor = %q", tamil)
	}
}

func TestEnglishForStoredSpelling(t *testing.T) {
	store := newFakeLocationStore()
	loc := store.seed("Watrap", 9.6500, 77.6400)
	loc.TamilName = "வத்திராயிருப்பு"
	if err := store.Save(loc); err != nil {
		t.Fatal(err)
	}

	tr := NewLocationTranslator(store)
	english, ok := tr.EnglishFor("வத்திராயிருப்பு")
	if !ok || english != "Watrap" {
		t.Fatalf("stored spelling not found: %q, %v", english, ok)
	}
}

func TestEnglishForCachesStoreLookups(t *testing.T) {
	store := newFakeLocationStore()
	loc := store.seed("Watrap", 9.6500, 77.6400)
	loc.TamilName = "வத்திராயிருப்பு"
	if err := store.Save(loc); err != nil {
		t.Fatal(err)
	}

	tr := NewLocationTranslator(store)
	for i := 0; i < 3; i++ {
		if _, ok := tr.EnglishFor("வத்திராயிருப்பு"); !ok {
			t.Fatal("lookup failed")
		}
	}
	if store.tamilLookups != 1 {
		t.Fatalf("store queried %d times, want 1", store.tamilLookups)
	}
}

func TestEnglishForCachesMisses(t *testing.T) {
	store := newFakeLocationStore()
	tr := NewLocationTranslator(store)

	for i := 0; i < 3; i++ {
		if _, ok := tr.EnglishFor("தெரியாத ஊர்"); ok {
			t.Fatal("unexpected translation")
		}
	}
	if store.tamilLookups != 1 {
		t.Fatalf("miss queried the store %d times, want 1", store.tamilLookups)
	}
}
