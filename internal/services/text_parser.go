package services

import (
	"regexp"
	"strings"
)

// RouteData is the structured result of parsing one block of schedule text.
type RouteData struct {
	BusNumber    string
	BusName      string
	Category     string
	FromLocation string
	ToLocation   string
	Timings      []string
	Stops        []string
}

// Complete reports whether enough was extracted to build a contribution.
func (r *RouteData) Complete() bool {
	return r != nil && r.FromLocation != "" && r.ToLocation != ""
}

const namePart = `[A-Za-z\p{Tamil}][A-Za-z\p{Tamil} .']{1,39}`

var (
	labeledBusNumberPattern = regexp.MustCompile(`(?i)\bbus\s*(?:no\.?|number|#)?\s*:?\s*([0-9]{1,3}[A-Za-z]{0,2})([:.][0-9]{2})?`)
	bareBusNumberPattern    = regexp.MustCompile(`\b([0-9]{1,3}[A-Z]{1,2})\b`)

	viaPattern = regexp.MustCompile(`(?i)\b(?:via|வழியாக)\s+(` + namePart + `(?:\s*,\s*` + namePart + `)*)`)

	wordRoutePattern = regexp.MustCompile(`(?i)(` + namePart + `)\s+(?:to|முதல்)\s+(` + namePart + `)`)
	dashRoutePattern = regexp.MustCompile(`(` + namePart + `)\s*(?:-|–|—|→|->)\s*(` + namePart + `)`)

	timingPattern = regexp.MustCompile(`\b\d{1,2}[:.]\d{2}\s*(?i:am|pm)?|\b\d{1,2}\s*(?i:am|pm)\b`)

	categoryPattern = regexp.MustCompile(`(?i)\b(express|deluxe|ultra\s+deluxe|ordinary|town|mofussil)\b`)
)

// ExtractRoute parses one block of text into route data. Patterns run in
// priority order and each match is cut out of the working text, so a bus
// number like "45G" never bleeds into a location name. Returns nil when no
// origin-destination pair is present.
func ExtractRoute(text string) *RouteData {
	working := strings.TrimSpace(text)
	if working == "" {
		return nil
	}
	route := &RouteData{}

	// A "bus 06:00" fragment is a labeled time, not a bus number, so any
	// match that continues into minutes is left in place for the timing pass.
	for _, m := range labeledBusNumberPattern.FindAllStringSubmatchIndex(working, -1) {
		if m[4] != -1 {
			continue
		}
		route.BusNumber = strings.ToUpper(working[m[2]:m[3]])
		working = working[:m[0]] + " " + working[m[1]:]
		break
	}
	if route.BusNumber == "" {
		if m := bareBusNumberPattern.FindStringSubmatchIndex(working); m != nil {
			route.BusNumber = working[m[2]:m[3]]
			working = working[:m[0]] + " " + working[m[1]:]
		}
	}

	if m := categoryPattern.FindStringSubmatchIndex(working); m != nil {
		route.Category = NormalizePlaceName(strings.ToLower(working[m[2]:m[3]]))
		working = working[:m[0]] + " " + working[m[1]:]
	}

	if m := viaPattern.FindStringSubmatchIndex(working); m != nil {
		for _, stop := range strings.Split(working[m[2]:m[3]], ",") {
			if s := cleanName(stop); s != "" {
				route.Stops = append(route.Stops, s)
			}
		}
		working = working[:m[0]] + " " + working[m[1]:]
	}

	if m := wordRoutePattern.FindStringSubmatch(working); m != nil {
		route.FromLocation = cleanName(m[1])
		route.ToLocation = cleanName(m[2])
	} else if m := dashRoutePattern.FindStringSubmatch(working); m != nil {
		route.FromLocation = cleanName(m[1])
		route.ToLocation = cleanName(m[2])
	}

	route.Timings = extractTimings(working)

	if route.Category != "" && route.ToLocation != "" {
		route.BusName = route.ToLocation + " " + route.Category
	}

	if !route.Complete() {
		return nil
	}
	return route
}

// ExtractRoutes handles multi-line text such as OCR output from a timetable
// photo: each line that carries its own origin-destination pair starts a new
// route, and time-only lines attach to the route above them.
func ExtractRoutes(text string) []*RouteData {
	lines := strings.Split(text, "\n")
	var routes []*RouteData
	var current *RouteData
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := ExtractRoute(line); r != nil {
			routes = append(routes, r)
			current = r
			continue
		}
		if current != nil {
			current.Timings = append(current.Timings, extractTimings(line)...)
		}
	}
	if len(routes) == 0 {
		if r := ExtractRoute(text); r != nil {
			routes = append(routes, r)
		}
	}
	for _, r := range routes {
		r.Timings = dedupeTimings(r.Timings)
	}
	return routes
}

func extractTimings(text string) []string {
	var out []string
	for _, raw := range timingPattern.FindAllString(text, -1) {
		if t, err := ParseTimeFlexible(raw); err == nil {
			out = append(out, t)
		}
	}
	return dedupeTimings(out)
}

// Filler words that ride along the edges of a captured location name, as in
// "Sivakasi to Madurai bus 06:00" where "bus" belongs to the schedule, not
// the destination. Interior words are never touched, so "Madurai Bus Stand"
// survives.
var nameNoiseWords = map[string]bool{
	"bus": true, "buses": true, "from": true, "at": true, "and": true,
	"departs": true, "departure": true, "timing": true, "timings": true,
	"daily": true, "the": true,
}

func cleanName(s string) string {
	s = strings.Trim(s, " \t.'")
	for {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return ""
		}
		if nameNoiseWords[strings.ToLower(fields[0])] {
			s = strings.Join(fields[1:], " ")
			continue
		}
		if nameNoiseWords[strings.ToLower(fields[len(fields)-1])] {
			s = strings.Join(fields[:len(fields)-1], " ")
			continue
		}
		return s
	}
}

func dedupeTimings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
