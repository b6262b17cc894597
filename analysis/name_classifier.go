package analysis

import (
	"math"

	"github.com/brenton-keller/babynames/domain/models"
)

// Thresholds are the decision constants of the classification rule chain.
// They are contract values: the worked examples in the test suite depend on
// the defaults below.
type Thresholds struct {
	EstablishedMinBirths int     // baseline total needed for ESTABLISHED
	EstablishedMinYears  int     // baseline years present needed for ESTABLISHED
	TrulyNewMinModern    int     // modern total needed for TRULY_NEW (with zero baseline)
	EmergingMinModern    int     // modern total needed for EMERGING
	RisingGrowthFactor   float64 // growth ratio that upgrades ESTABLISHED to RISING
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		EstablishedMinBirths: 5000,
		EstablishedMinYears:  5,
		TrulyNewMinModern:    100,
		EmergingMinModern:    50,
		RisingGrowthFactor:   3.0,
	}
}

// Overrides force a category for specific names regardless of computed
// stats. Pre-1910 state coverage and undercounted early records misclassify
// some well-known names; the override table patches those cases. Keys are
// names in the normalized (title-cased) form used by the loaders.
type Overrides map[string]models.Category

// DefaultOverrides returns the curated override table: names everyone knows
// predate the data window, and media-coined names known to have no
// historical precedent.
func DefaultOverrides() Overrides {
	ov := Overrides{}
	knownEstablished := []string{
		"Michael", "James", "John", "Robert", "William", "David",
		"Mary", "Elizabeth", "Patricia", "Jennifer", "Linda", "Barbara",
		"Richard", "Joseph", "Thomas", "Sarah", "Margaret", "Susan",
	}
	knownModern := []string{
		"Nevaeh", "Khaleesi", "Daenerys", "Anakin", "Kylo",
		"Jaxon", "Zendaya", "Yara", "Arya",
	}
	for _, name := range knownEstablished {
		ov[name] = models.CategoryEstablished
	}
	for _, name := range knownModern {
		ov[name] = models.CategoryTrulyNew
	}
	return ov
}

// GrowthRatio is modern average births / baseline average births. A zero
// baseline average with modern presence means maximal growth by convention
// (+Inf, never an error); zero on both sides is just zero.
func GrowthRatio(baselineAvg, modernAvg float64) float64 {
	if baselineAvg == 0 {
		if modernAvg > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return modernAvg / baselineAvg
}

// Classify assigns exactly one category per key by running the ordered rule
// chain over the merged period stats. Later rules override earlier ones;
// the final assignment wins. The chain:
//
//  1. default OTHER
//  2. big, multi-year baseline -> ESTABLISHED
//  3. exactly zero baseline + real modern volume -> TRULY_NEW
//  4. small nonzero baseline + modern volume -> EMERGING
//  5. ESTABLISHED with sharp post-cutoff acceleration -> RISING
//  6. curated overrides force their category
//
// Established-ness is checked first because high historical volume is the
// least ambiguous signal. TRULY_NEW requires an exact zero baseline: any
// nonzero historical presence means the name is rare, not new. RISING only
// refines an already-confirmed ESTABLISHED.
func Classify(stats map[models.NameKey]models.PeriodStats, th Thresholds, ov Overrides) map[models.NameKey]models.ClassifiedName {
	out := make(map[models.NameKey]models.ClassifiedName, len(stats))
	for key, ps := range stats {
		growth := GrowthRatio(ps.BaselineAvgAnnual, ps.ModernAvgAnnual)

		category := models.CategoryOther
		if ps.BaselineTotalBirths >= th.EstablishedMinBirths && ps.BaselineYearsPresent >= th.EstablishedMinYears {
			category = models.CategoryEstablished
		}
		if ps.BaselineTotalBirths == 0 && ps.ModernTotalBirths >= th.TrulyNewMinModern {
			category = models.CategoryTrulyNew
		}
		if ps.BaselineTotalBirths > 0 && ps.BaselineTotalBirths < th.EstablishedMinBirths &&
			ps.ModernTotalBirths >= th.EmergingMinModern {
			category = models.CategoryEmerging
		}
		if category == models.CategoryEstablished && growth >= th.RisingGrowthFactor {
			category = models.CategoryRising
		}

		forced, overridden := ov[key.Name]
		if overridden {
			category = forced
		}

		cn := models.ClassifiedName{
			Name:        key.Name,
			Sex:         key.Sex,
			PeriodStats: ps,
			GrowthRatio: growth,
			Category:    category,
		}
		cn.Confidence = confidenceLabel(cn, overridden)
		out[key] = cn
	}
	return out
}

func confidenceLabel(cn models.ClassifiedName, overridden bool) models.Confidence {
	switch {
	case overridden:
		return models.ConfidenceHigh
	case cn.Category == models.CategoryTrulyNew && cn.BaselineTotalBirths == 0:
		return models.ConfidenceHigh
	case cn.Category == models.CategoryEstablished && cn.BaselineTotalBirths >= 10000:
		return models.ConfidenceHigh
	case cn.Category == models.CategoryEmerging || cn.Category == models.CategoryRising:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// DefaultBaselineYears is the length of the historical reference window
// (e.g. 1980-1989 for the 1990 cutoff).
const DefaultBaselineYears = 10

// ClassifyAll runs the full classification pipeline over raw national rows
// with the default thresholds, overrides and baseline window. Re-running on
// the same input yields identical output; there is no hidden state.
func ClassifyAll(records []models.NameYearRecord, cutoffYear int) (map[models.NameKey]models.ClassifiedName, error) {
	stats, err := AggregatePeriods(records, cutoffYear, DefaultBaselineYears)
	if err != nil {
		return nil, err
	}
	return Classify(stats, DefaultThresholds(), DefaultOverrides()), nil
}

// Explain renders the human-readable reading of a category. The switch is
// exhaustive over the closed category set.
func Explain(c models.Category) string {
	switch c {
	case models.CategoryEstablished:
		return "in steady use well before the cutoff year; any geographic origin signal would be an artifact of where the data begins"
	case models.CategoryTrulyNew:
		return "no recorded births at all in the baseline window; the name entered use after the cutoff year"
	case models.CategoryEmerging:
		return "rare before the cutoff year and clearly adopted after it"
	case models.CategoryRising:
		return "already popular before the cutoff year and accelerating sharply after it"
	case models.CategoryOther:
		return "too little signal in either window to say anything stronger"
	}
	return ""
}
