package analysis

import (
	"github.com/brenton-keller/babynames/domain/models"
)

// FilterEligible keeps the classifications that qualify for geographic
// origin detection: TRULY_NEW and EMERGING. Names with a real historical
// footprint predate the usable state data, so a single-point "origin" for
// them would only reflect data left-censoring.
func FilterEligible(classified map[models.NameKey]models.ClassifiedName) map[models.NameKey]models.ClassifiedName {
	out := map[models.NameKey]models.ClassifiedName{}
	for key, cn := range classified {
		switch cn.Category {
		case models.CategoryTrulyNew, models.CategoryEmerging:
			out[key] = cn
		case models.CategoryEstablished, models.CategoryRising, models.CategoryOther:
			// historical precedent, or not enough data to rule it out
		}
	}
	return out
}
