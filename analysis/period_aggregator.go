package analysis

import (
	"fmt"

	"github.com/brenton-keller/babynames/domain/models"
)

// periodAccumulator collects one window's running aggregates for a key.
// Year counts are tracked in a small set because the raw files are not
// guaranteed to arrive sorted, and duplicate rows must not double-count a
// year as "present".
type periodAccumulator struct {
	totalBirths int
	years       map[int]bool
	peakYear    int
	peakBirths  int
	firstYear   int
	lastYear    int
}

func newPeriodAccumulator() *periodAccumulator {
	return &periodAccumulator{years: map[int]bool{}}
}

func (a *periodAccumulator) add(year, births int) {
	a.totalBirths += births
	a.years[year] = true
	// Peak ties resolve to the earliest year so re-runs are reproducible.
	if births > a.peakBirths || (births == a.peakBirths && (a.peakYear == 0 || year < a.peakYear)) {
		a.peakBirths = births
		a.peakYear = year
	}
	if a.firstYear == 0 || year < a.firstYear {
		a.firstYear = year
	}
	if year > a.lastYear {
		a.lastYear = year
	}
}

func (a *periodAccumulator) avgAnnual() float64 {
	if len(a.years) == 0 {
		return 0
	}
	return float64(a.totalBirths) / float64(len(a.years))
}

// AggregatePeriods collapses raw per-year national rows into baseline and
// modern window aggregates per name+sex key. The baseline window is the
// baselineYears years immediately before cutoffYear; the modern window is
// every year at or after cutoffYear. Keys appearing in neither window are
// never materialized; keys seen in only one window get zeroed fields (and a
// false Seen flag) for the other, which keeps the growth-ratio division
// downstream well defined.
func AggregatePeriods(records []models.NameYearRecord, cutoffYear, baselineYears int) (map[models.NameKey]models.PeriodStats, error) {
	if baselineYears <= 0 {
		return nil, fmt.Errorf("aggregate periods: baselineYears must be positive, got %d", baselineYears)
	}

	baselineStart := cutoffYear - baselineYears

	baseline := map[models.NameKey]*periodAccumulator{}
	modern := map[models.NameKey]*periodAccumulator{}
	for _, r := range records {
		key := models.NameKey{Name: r.Name, Sex: r.Sex}
		switch {
		case r.Year >= cutoffYear:
			acc := modern[key]
			if acc == nil {
				acc = newPeriodAccumulator()
				modern[key] = acc
			}
			acc.add(r.Year, r.Births)
		case r.Year >= baselineStart:
			acc := baseline[key]
			if acc == nil {
				acc = newPeriodAccumulator()
				baseline[key] = acc
			}
			acc.add(r.Year, r.Births)
		default:
			// Years before the baseline window carry no signal for the
			// classifier and are skipped entirely.
		}
	}

	out := make(map[models.NameKey]models.PeriodStats, len(baseline)+len(modern))
	for key, acc := range baseline {
		stats := out[key]
		stats.BaselineTotalBirths = acc.totalBirths
		stats.BaselineYearsPresent = len(acc.years)
		stats.BaselineAvgAnnual = acc.avgAnnual()
		stats.BaselinePeakYear = acc.peakYear
		stats.BaselinePeakBirths = acc.peakBirths
		stats.BaselineFirstYear = acc.firstYear
		stats.BaselineLastYear = acc.lastYear
		stats.BaselineSeen = true
		out[key] = stats
	}
	for key, acc := range modern {
		stats := out[key]
		stats.ModernTotalBirths = acc.totalBirths
		stats.ModernYearsPresent = len(acc.years)
		stats.ModernAvgAnnual = acc.avgAnnual()
		stats.ModernPeakYear = acc.peakYear
		stats.ModernPeakBirths = acc.peakBirths
		stats.ModernFirstYear = acc.firstYear
		stats.ModernSeen = true
		out[key] = stats
	}
	return out, nil
}
