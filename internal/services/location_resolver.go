package services

import (
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"

	"perundhu/internal/geocoding"
	"perundhu/internal/models"
)

// ResolutionStatus records how a place name was matched to a Location row.
type ResolutionStatus string

const (
	ResolutionExact    ResolutionStatus = "EXACT"
	ResolutionFuzzy    ResolutionStatus = "FUZZY"
	ResolutionGeocoded ResolutionStatus = "GEOCODED"
	ResolutionCreated  ResolutionStatus = "CREATED"
)

// Resolution is the outcome of resolving one raw place name.
type Resolution struct {
	Status   ResolutionStatus
	Location *models.Location
}

// Resolver maps free-text place names from contributions onto Location rows,
// creating rows when nothing in the database or the geocoder matches.
type Resolver struct {
	store      LocationStore
	geocoder   Geocoder
	translator *LocationTranslator
}

func NewResolver(store LocationStore, geocoder Geocoder) *Resolver {
	return &Resolver{store: store, geocoder: geocoder, translator: NewLocationTranslator(store)}
}

// ResolutionBatch caches resolutions for the duration of one submission so a
// name repeated across expanded candidates hits the geocoder at most once.
type ResolutionBatch struct {
	resolver *Resolver
	cache    map[string]*Resolution
}

func (r *Resolver) Batch() *ResolutionBatch {
	return &ResolutionBatch{resolver: r, cache: make(map[string]*Resolution)}
}

// Resolve is the single-shot form for callers outside a submission batch.
func (r *Resolver) Resolve(name string) (*Resolution, error) {
	return r.Batch().Resolve(name)
}

// Resolve walks the match ladder for one place name: exact, normalized,
// uppercase, substring, geocode, then create.
func (b *ResolutionBatch) Resolve(name string) (*Resolution, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyPlaceName
	}
	key := strings.ToLower(trimmed)
	if cached, ok := b.cache[key]; ok {
		return cached, nil
	}

	res, err := b.resolver.resolve(trimmed)
	if err != nil {
		return nil, err
	}
	b.cache[key] = res
	return res, nil
}

func (r *Resolver) resolve(trimmed string) (*Resolution, error) {
	if IsTamilText(trimmed) {
		return r.resolveTamil(trimmed)
	}
	return r.resolveEnglish(trimmed)
}

// resolveTamil handles Tamil-script input: match rows already carrying the
// Tamil spelling, otherwise translate and walk the English ladder, recording
// the Tamil spelling on whichever row comes back.
func (r *Resolver) resolveTamil(trimmed string) (*Resolution, error) {
	if loc, err := r.store.FindByTamilName(trimmed); err != nil {
		return nil, err
	} else if loc != nil {
		return &Resolution{Status: ResolutionExact, Location: loc}, nil
	}

	if english, ok := r.translator.EnglishFor(trimmed); ok {
		res, err := r.resolveEnglish(english)
		if err != nil {
			return nil, err
		}
		if res.Location.TamilName == "" {
			res.Location.TamilName = trimmed
			if err := r.store.Save(res.Location); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	// Untranslatable Tamil name: keep the script as typed so the row can be
	// merged once an English spelling shows up.
	loc := &models.Location{Name: trimmed, TamilName: trimmed}
	if err := r.store.Save(loc); err != nil {
		return nil, err
	}
	log.WithField("name", trimmed).Info("created location from untranslated tamil name")
	return &Resolution{Status: ResolutionCreated, Location: loc}, nil
}

func (r *Resolver) resolveEnglish(trimmed string) (*Resolution, error) {
	if loc, err := r.store.FindByName(trimmed); err != nil {
		return nil, err
	} else if loc != nil {
		return &Resolution{Status: ResolutionExact, Location: loc}, nil
	}

	normalized := NormalizePlaceName(trimmed)
	if normalized != trimmed {
		if loc, err := r.store.FindByName(normalized); err != nil {
			return nil, err
		} else if loc != nil {
			return &Resolution{Status: ResolutionFuzzy, Location: loc}, nil
		}
	}

	upper := strings.ToUpper(trimmed)
	if upper != trimmed && upper != normalized {
		if loc, err := r.store.FindByName(upper); err != nil {
			return nil, err
		} else if loc != nil {
			return &Resolution{Status: ResolutionFuzzy, Location: loc}, nil
		}
	}

	matches, err := r.store.FindByNameContaining(normalized)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		loc := matches[0]
		log.WithFields(log.Fields{"query": trimmed, "matched": loc.Name}).
			Debug("location resolved by partial match")
		return &Resolution{Status: ResolutionFuzzy, Location: &loc}, nil
	}

	if r.geocoder != nil {
		geo, err := r.geocoder.SearchRegion(normalized)
		switch {
		case err == nil:
			tamil, _ := r.translator.TamilFor(normalized)
			loc := &models.Location{
				Name:      normalized,
				TamilName: tamil,
				Latitude:  &geo.Latitude,
				Longitude: &geo.Longitude,
			}
			if err := r.store.Save(loc); err != nil {
				return nil, err
			}
			log.WithFields(log.Fields{"name": normalized, "lat": geo.Latitude, "lon": geo.Longitude}).
				Info("created geocoded location")
			return &Resolution{Status: ResolutionGeocoded, Location: loc}, nil
		case err != geocoding.ErrNotFound:
			log.WithError(err).WithField("name", normalized).Warn("geocoding failed, creating without coordinates")
		}
	}

	tamil, _ := r.translator.TamilFor(normalized)
	loc := &models.Location{Name: normalized, TamilName: tamil}
	if err := r.store.Save(loc); err != nil {
		return nil, err
	}
	log.WithField("name", normalized).Info("created location without coordinates")
	return &Resolution{Status: ResolutionCreated, Location: loc}, nil
}

// NormalizePlaceName title-cases a raw place name word by word, restarting
// capitalization after spaces and hyphens. A word that already starts with an
// uppercase letter followed by a lowercase one is kept as typed, so names like
// "McDonald Kovil" survive normalization.
func NormalizePlaceName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return trimmed
	}

	runes := []rune(trimmed)
	if len(runes) >= 2 && unicode.IsUpper(runes[0]) && unicode.IsLower(runes[1]) {
		return trimmed
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	startOfWord := true
	for _, r := range runes {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune(r)
			startOfWord = true
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
