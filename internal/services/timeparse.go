package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?$`)

// ParseTimeFlexible accepts the clock formats contributors actually type —
// "6:00", "06:00", "18.30", "0630", "6 AM", "6:30pm" — and normalizes them
// to a 24-hour "HH:MM" string.
func ParseTimeFlexible(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty time")
	}

	upper := strings.ToUpper(s)
	pm := strings.Contains(upper, "PM")
	am := strings.Contains(upper, "AM")
	upper = strings.ReplaceAll(upper, "AM", "")
	upper = strings.ReplaceAll(upper, "PM", "")
	upper = strings.TrimSpace(strings.ReplaceAll(upper, ".", ":"))

	var hour, minute int
	if m := clockPattern.FindStringSubmatch(upper); m != nil && m[2] != "" {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
	} else if len(upper) == 4 && isDigits(upper) {
		hour, _ = strconv.Atoi(upper[:2])
		minute, _ = strconv.Atoi(upper[2:])
	} else if isDigits(upper) && (am || pm) {
		hour, _ = strconv.Atoi(upper)
	} else {
		return "", fmt.Errorf("unrecognized time %q", raw)
	}

	if pm && hour < 12 {
		hour += 12
	}
	if am && hour == 12 {
		hour = 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("time %q out of range", raw)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// MinutesOfDay converts a normalized "HH:MM" string to minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// tripMinutes returns the journey duration between two "HH:MM" clock times,
// treating an arrival earlier than the departure as an overnight run.
func tripMinutes(departure, arrival string) (int, error) {
	dep, err := MinutesOfDay(departure)
	if err != nil {
		return 0, err
	}
	arr, err := MinutesOfDay(arrival)
	if err != nil {
		return 0, err
	}
	d := arr - dep
	if d < 0 {
		d += 24 * 60
	}
	return d, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
