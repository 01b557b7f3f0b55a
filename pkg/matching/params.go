package matching

import (
	"strings"

	"github.com/rs/zerolog"
)

// Hard platform-plausibility clamps on the searched age band. Never exceeded
// regardless of configuration.
const (
	searchAgeFloor = 18
	searchAgeCeil  = 80
)

// Default band when the requester's age is unknown.
const (
	defaultAgeFrom = 18
	defaultAgeTo   = 35
)

const searchFields = "bdate,city,photo_100,sex"

// SearchConfig is the static tuning the parameter builder works from.
// LookupCity resolves a normalized city name to the platform's city id.
type SearchConfig struct {
	Count      int
	AgeRange   int
	CountryID  int64
	LookupCity func(name string) (int64, bool)
}

// NormalizeCity lowercases, trims and folds "ё" to "е" so that user-entered
// city names hit the lookup table regardless of the common spelling variant.
func NormalizeCity(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "ё", "е")
}

// BuildSearchParams derives the users.search query from a requester profile.
// Deterministic and side-effect-free apart from the degraded-precision log
// when the city cannot be resolved.
func BuildSearchParams(p Profile, cfg SearchConfig, log zerolog.Logger) SearchParams {
	params := SearchParams{
		Count:     cfg.Count,
		Fields:    searchFields,
		HasPhoto:  true, // never surface photo-less candidates
		Sort:      0,    // by popularity
		CountryID: cfg.CountryID,
	}

	// Target the opposite sex; unknown searches both.
	switch p.Sex {
	case SexFemale:
		params.Sex = SexMale
	case SexMale:
		params.Sex = SexFemale
	}

	if p.Age != nil {
		params.AgeFrom = *p.Age - cfg.AgeRange
		if params.AgeFrom < searchAgeFloor {
			params.AgeFrom = searchAgeFloor
		}
		params.AgeTo = *p.Age + cfg.AgeRange
		if params.AgeTo > searchAgeCeil {
			params.AgeTo = searchAgeCeil
		}
	} else {
		params.AgeFrom = defaultAgeFrom
		params.AgeTo = defaultAgeTo
	}

	if cfg.LookupCity != nil && strings.TrimSpace(p.City) != "" {
		normalized := NormalizeCity(p.City)
		id, ok := cfg.LookupCity(normalized)
		if !ok {
			// The raw lowercased form may match a table entry the folding missed.
			id, ok = cfg.LookupCity(strings.ToLower(strings.TrimSpace(p.City)))
		}
		if ok {
			params.CityID = id
		} else {
			log.Warn().
				Int64("user_id", p.ID).
				Str("city", p.City).
				Msg("city not in lookup table, searching country-wide")
		}
	}

	return params
}
