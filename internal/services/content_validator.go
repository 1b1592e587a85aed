package services

import (
	"regexp"
	"strings"
)

// ContentResult is the outcome of screening a pasted or transcribed text.
type ContentResult struct {
	Valid     bool
	Reason    string
	Sanitized string
}

type patternRule struct {
	category string
	re       *regexp.Regexp
}

var maliciousPatterns = []patternRule{
	{"script injection", regexp.MustCompile(`(?is)<\s*script`)},
	{"markup injection", regexp.MustCompile(`(?is)<\s*(iframe|object|embed|form)`)},
	{"event handler injection", regexp.MustCompile(`(?i)\bon(load|error|click|mouseover)\s*=`)},
	{"sql injection", regexp.MustCompile(`(?i)\b(drop\s+table|delete\s+from|insert\s+into|union\s+select)\b`)},
	{"protocol injection", regexp.MustCompile(`(?i)(javascript|vbscript|data)\s*:`)},
	{"path traversal", regexp.MustCompile(`\.\./\.\./`)},
}

var spamPatterns = []patternRule{
	{"sales language", regexp.MustCompile(`(?i)\b(buy|sale|discount|offer|cheap|purchase|order\s+now)\b`)},
	{"call to action", regexp.MustCompile(`(?i)(click\s+here|subscribe|sign\s+up\s+now|visit\s+our)`)},
	{"prize bait", regexp.MustCompile(`(?i)\b(win|won|winner|prize|lottery|jackpot|free\s+money)\b`)},
	{"entertainment content", regexp.MustCompile(`(?i)\b(movie|film|song|album|download\s+mp3|web\s*series)\b`)},
	{"link spam", regexp.MustCompile(`(?i)https?://\S+\s+https?://\S+`)},
}

var interrogativePattern = regexp.MustCompile(`(?i)\b(when\s+is|when\s+will|what\s+time|where\s+is|how\s+do|how\s+can|is\s+there|can\s+you|will\s+the)\b`)
var personalPronounPattern = regexp.MustCompile(`(?i)\b(i|me|my|you|your|we|us)\b`)

var routeKeywordPattern = regexp.MustCompile(`(?i)\b(bus|route|express|deluxe|ordinary|town|mofussil|depot|பஸ்|பேருந்து|வழித்தடம்)\b`)
var directionalPattern = regexp.MustCompile(`(?i)(\bto\b|\bfrom\b|\bvia\b|->|→|–|—|\bமுதல்\b|\bவரை\b|\bவழியாக\b|[\p{Tamil}A-Za-z]\s*-\s*[\p{Tamil}A-Za-z])`)
var timeHintPattern = regexp.MustCompile(`\d{1,2}[:.]\d{2}|\d{1,2}\s*(?i:am|pm)`)

const minUsefulLength = 20

// ContentValidator screens contributed text before route parsing. The checks
// run in a fixed order: sanitize, malicious markup, spam, conversational
// chatter, then a final is-this-about-a-bus-route gate.
type ContentValidator struct{}

func NewContentValidator() *ContentValidator {
	return &ContentValidator{}
}

func (v *ContentValidator) Validate(text string) ContentResult {
	raw := strings.TrimSpace(text)
	if len(raw) < minUsefulLength {
		return ContentResult{Reason: "text too short to describe a route"}
	}

	for _, rule := range maliciousPatterns {
		if rule.re.MatchString(raw) {
			return ContentResult{Reason: "rejected: " + rule.category}
		}
	}

	sanitized := sanitize(raw)

	for _, rule := range spamPatterns {
		if rule.re.MatchString(sanitized) {
			return ContentResult{Reason: "looks like promotional content (" + rule.category + ")"}
		}
	}

	if looksLikeChat(sanitized) {
		return ContentResult{Reason: "looks like a question or chat message, not schedule data"}
	}

	if !routeKeywordPattern.MatchString(sanitized) && !timeHintPattern.MatchString(sanitized) {
		return ContentResult{Reason: "no bus or schedule terms found"}
	}
	if !directionalPattern.MatchString(sanitized) {
		return ContentResult{Reason: "no origin-destination wording found"}
	}

	return ContentResult{Valid: true, Sanitized: sanitized}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)
var controlPattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
var spacePattern = regexp.MustCompile(`[ \t]+`)

func sanitize(text string) string {
	s := tagPattern.ReplaceAllString(text, " ")
	s = controlPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func looksLikeChat(text string) bool {
	questions := strings.Count(text, "?")
	if questions > 2 {
		return true
	}
	if questions >= 1 && interrogativePattern.MatchString(text) {
		return true
	}
	return interrogativePattern.MatchString(text) && personalPronounPattern.MatchString(text) &&
		!timeHintPattern.MatchString(text)
}
