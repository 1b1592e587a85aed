package services

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"perundhu/internal/cache"
)

// DuplicateEntry remembers the first contribution seen for a fingerprint.
type DuplicateEntry struct {
	ContributionID string
	FirstSeen      time.Time
}

// DuplicateDetector keeps a sliding window of recently-seen contribution
// fingerprints so resubmissions inside the window link to the original
// instead of creating a second pending row.
type DuplicateDetector struct {
	seen *cache.TTL[DuplicateEntry]
}

func NewDuplicateDetector(window time.Duration) *DuplicateDetector {
	return &DuplicateDetector{seen: cache.NewTTL[DuplicateEntry](window)}
}

// Fingerprint derives a stable key from the fields that identify a schedule
// entry. Names are normalized so "MADURAI" and "Madurai" collide.
func Fingerprint(busNumber, from, to, departureTime string) string {
	h := fnv.New64a()
	for _, part := range []string{busNumber, from, to, departureTime} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{'|'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// FingerprintImage hashes raw image bytes so the same photo uploaded twice is
// caught before OCR runs.
func FingerprintImage(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("img:%016x", h.Sum64())
}

// Check reports whether the fingerprint was seen inside the window.
func (d *DuplicateDetector) Check(fingerprint string) (DuplicateEntry, bool) {
	return d.seen.Get(fingerprint)
}

// Remember records the fingerprint against the contribution that owns it.
// The first writer wins, so concurrent duplicates all link to one original.
func (d *DuplicateDetector) Remember(fingerprint, contributionID string) {
	d.seen.Add(fingerprint, DuplicateEntry{
		ContributionID: contributionID,
		FirstSeen:      time.Now(),
	})
}
