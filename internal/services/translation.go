package services

import (
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/cache"
)

var tamilTextPattern = regexp.MustCompile(`\p{Tamil}`)

// IsTamilText reports whether the text contains Tamil script.
func IsTamilText(text string) bool {
	return tamilTextPattern.MatchString(text)
}

// Well-known Tamil Nadu place names, Tamil script to English. Covers the
// names contributors type most often; everything else falls back to the
// location table, where rows carry both spellings once seen.
var tamilToEnglish = map[string]string{
	"சென்னை":          "Chennai",
	"கோயம்புத்தூர்":   "Coimbatore",
	"மதுரை":           "Madurai",
	"திருச்சி":        "Trichy",
	"திருச்சிராப்பள்ளி": "Tiruchirappalli",
	"சேலம்":           "Salem",
	"திருநெல்வேலி":    "Tirunelveli",
	"கன்னியாகுமரி":    "Kanyakumari",
	"வேலூர்":          "Vellore",
	"தஞ்சாவூர்":       "Thanjavur",
	"கும்பகோணம்":      "Kumbakonam",
	"ஈரோடு":           "Erode",
	"திருப்பூர்":      "Tirupur",
	"நாகர்கோவில்":     "Nagercoil",
	"தூத்துக்குடி":    "Thoothukudi",
	"காஞ்சிபுரம்":     "Kanchipuram",
	"கடலூர்":          "Cuddalore",
	"நாகப்பட்டினம்":   "Nagapattinam",
	"புதுக்கோட்டை":    "Pudukkottai",
	"ராமநாதபுரம்":     "Ramanathapuram",
	"சிவகங்கை":        "Sivaganga",
	"விருதுநகர்":      "Virudhunagar",
	"தேனி":            "Theni",
	"திண்டுக்கல்":     "Dindigul",
	"கரூர்":           "Karur",
	"நாமக்கல்":        "Namakkal",
	"பெரம்பலூர்":      "Perambalur",
	"அரியலூர்":        "Ariyalur",
	"கிருஷ்ணகிரி":     "Krishnagiri",
	"தர்மபுரி":        "Dharmapuri",
	"திருவண்ணாமலை":    "Tiruvannamalai",
	"விழுப்புரம்":     "Villupuram",
	"கள்ளக்குறிச்சி":  "Kallakurichi",
	"ஊட்டி":           "Ooty",
	"கொடைக்கானல்":     "Kodaikanal",
	"திருவாரூர்":      "Tiruvarur",
	"மயிலாடுதுறை":     "Mayiladuthurai",
	"தென்காசி":        "Tenkasi",
	"திருப்பத்தூர்":   "Tirupattur",
	"ராணிப்பேட்டை":    "Ranipet",
	"செங்கல்பட்டு":    "Chengalpattu",
	"சிவகாசி":         "Sivakasi",
	"சாத்தூர்":        "Sattur",
	"ஸ்ரீவில்லிபுத்தூர்": "Srivilliputhur",
	"அருப்புக்கோட்டை": "Aruppukkottai",
	"ராஜபாளையம்":      "Rajapalayam",
	"காரியாபட்டி":     "Kariapatti",
	"திருமங்கலம்":     "Thirumangalam",
	"மேலூர்":          "Melur",
	"உசிலம்பட்டி":     "Usilampatti",
	"பெரியகுளம்":      "Periyakulam",
	"வாடிப்பட்டி":     "Vadipatti",
	"அம்பாசமுத்திரம்": "Ambasamudram",
	"பாளையங்கோட்டை":   "Palayamkottai",
	"மேட்டூர்":        "Mettur",
	"பவானி":           "Bhavani",
	"அவினாசி":         "Avinashi",
	"பொள்ளாச்சி":      "Pollachi",
	"பழனி":            "Palani",
	"ஓசூர்":           "Hosur",
	"மேட்டுப்பாளையம்": "Mettupalayam",
	"குன்னூர்":        "Coonoor",
	"சிதம்பரம்":       "Chidambaram",
	"சீர்காழி":        "Sirkazhi",
	"காரைக்கால்":      "Karaikal",
	"வேதாரண்யம்":      "Vedaranyam",
	"பட்டுக்கோட்டை":   "Pattukottai",
	"அறந்தாங்கி":      "Aranthangi",
	"கராய்க்குடி":     "Karaikudi",
	"தேவகோட்டை":       "Devakottai",
	"பரமக்குடி":       "Paramakudi",
	"ராமேஸ்வரம்":      "Rameswaram",
	"பேருந்து நிலையம்": "Bus Stand",
	"மத்திய பேருந்து நிலையம்": "Central Bus Stand",
	"பேருந்து முனையம்": "Bus Terminus",
}

var englishToTamil = func() map[string]string {
	m := make(map[string]string, len(tamilToEnglish))
	for ta, en := range tamilToEnglish {
		m[strings.ToLower(en)] = ta
	}
	return m
}()

const translationCacheTTL = 24 * time.Hour

// LocationTranslator maps place names between Tamil and English. The static
// table answers the common cases; the location table answers names it has
// seen in both spellings before. Store lookups are cached, including misses.
type LocationTranslator struct {
	store LocationStore

	// cached value "" means a known miss
	lookups *cache.TTL[string]
}

func NewLocationTranslator(store LocationStore) *LocationTranslator {
	return &LocationTranslator{
		store:   store,
		lookups: cache.NewTTL[string](translationCacheTTL),
	}
}

// EnglishFor translates a Tamil place name to its English form.
func (t *LocationTranslator) EnglishFor(tamilName string) (string, bool) {
	trimmed := strings.TrimSpace(tamilName)
	if trimmed == "" {
		return "", false
	}

	if english, ok := tamilToEnglish[trimmed]; ok {
		return english, true
	}

	key := cache.Key("ta-en", trimmed)
	if cached, hit := t.lookups.Get(key); hit {
		return cached, cached != ""
	}

	loc, err := t.store.FindByTamilName(trimmed)
	if err != nil {
		log.WithError(err).WithField("name", trimmed).Warn("tamil name lookup failed")
		return "", false
	}
	if loc == nil {
		t.lookups.Set(key, "")
		return "", false
	}
	t.lookups.Set(key, loc.Name)
	return loc.Name, true
}

// TamilFor translates an English place name to its Tamil form.
func (t *LocationTranslator) TamilFor(englishName string) (string, bool) {
	trimmed := strings.TrimSpace(englishName)
	if trimmed == "" {
		return "", false
	}

	if tamil, ok := englishToTamil[strings.ToLower(trimmed)]; ok {
		return tamil, true
	}

	key := cache.Key("en-ta", strings.ToLower(trimmed))
	if cached, hit := t.lookups.Get(key); hit {
		return cached, cached != ""
	}

	loc, err := t.store.FindByName(trimmed)
	if err != nil {
		log.WithError(err).WithField("name", trimmed).Warn("location lookup failed")
		return "", false
	}
	if loc == nil || loc.TamilName == "" {
		t.lookups.Set(key, "")
		return "", false
	}
	t.lookups.Set(key, loc.TamilName)
	return loc.TamilName, true
}
