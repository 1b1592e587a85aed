package geocoding

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*NominatimClient, *int32) {
	t.Helper()
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	os.Setenv("NOMINATIM_URL", srv.URL)
	t.Cleanup(func() { os.Unsetenv("NOMINATIM_URL") })

	return NewNominatimClient(0), &requests
}

func TestSearchRegionParsesResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q != "Sivakasi, Tamil Nadu, India" {
			t.Errorf("query = %q, missing region suffix", q)
		}
		fmt.Fprint(w, `[{"name":"Sivakasi","display_name":"Sivakasi, Virudhunagar, Tamil Nadu, India","lat":"9.4533","lon":"77.7978"}]`)
	})

	res, err := client.SearchRegion("Sivakasi")
	if err != nil {
		t.Fatal(err)
	}
	if res.CanonicalName != "Sivakasi" {
		t.Errorf("name = %q", res.CanonicalName)
	}
	if res.Latitude != 9.4533 || res.Longitude != 77.7978 {
		t.Errorf("coords = %v, %v", res.Latitude, res.Longitude)
	}
}

func TestSearchRegionCachesHits(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"Madurai","display_name":"Madurai","lat":"9.9252","lon":"78.1198"}]`)
	})

	for i := 0; i < 3; i++ {
		if _, err := client.SearchRegion("Madurai"); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(requests); n != 1 {
		t.Fatalf("provider hit %d times for the same query, want 1", n)
	}
}

func TestSearchRegionCachesMisses(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	for i := 0; i < 3; i++ {
		if _, err := client.SearchRegion("Nowhereville"); err != ErrNotFound {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if n := atomic.LoadInt32(requests); n != 1 {
		t.Fatalf("provider hit %d times for a cached miss, want 1", n)
	}
}

func TestSearchRegionThrottles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	client.minInterval = 60 * time.Millisecond

	start := time.Now()
	client.SearchRegion("one")
	client.SearchRegion("two")
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("second request went out after %v, expected spacing", elapsed)
	}
}

func TestSearchRegionBadStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := client.SearchRegion("Madurai"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
