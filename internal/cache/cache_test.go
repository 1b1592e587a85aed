package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewTTL[int](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("a", 42)
	v, ok := c.Get("a")
	if !ok || v != 42 {
		t.Errorf("expected 42, got %d (ok=%v)", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := NewTTL[string](10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestAddRespectsLiveEntries(t *testing.T) {
	c := NewTTL[string](time.Minute)

	if !c.Add("k", "first") {
		t.Fatal("first Add should succeed")
	}
	if c.Add("k", "second") {
		t.Error("Add over a live entry should fail")
	}

	v, _ := c.Get("k")
	if v != "first" {
		t.Errorf("expected original value, got %q", v)
	}
}

func TestKey(t *testing.T) {
	got := Key("route", "45G", "Madurai")
	want := "route:45G:Madurai"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
