package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brenton-keller/babynames/domain/models"
)

func statsFor(baselineTotal, baselineYears, modernTotal, modernYears int) models.PeriodStats {
	ps := models.PeriodStats{
		BaselineTotalBirths:  baselineTotal,
		BaselineYearsPresent: baselineYears,
		ModernTotalBirths:    modernTotal,
		ModernYearsPresent:   modernYears,
	}
	if baselineYears > 0 {
		ps.BaselineSeen = true
		ps.BaselineAvgAnnual = float64(baselineTotal) / float64(baselineYears)
	}
	if modernYears > 0 {
		ps.ModernSeen = true
		ps.ModernAvgAnnual = float64(modernTotal) / float64(modernYears)
	}
	return ps
}

func classifyOne(t *testing.T, name string, sex models.Sex, ps models.PeriodStats) models.ClassifiedName {
	t.Helper()
	key := models.NameKey{Name: name, Sex: sex}
	out := Classify(map[models.NameKey]models.PeriodStats{key: ps}, DefaultThresholds(), DefaultOverrides())
	cn, ok := out[key]
	assert.True(t, ok, "expected a classification row for %v", key)
	return cn
}

func TestClassifyRuleChain(t *testing.T) {
	tests := []struct {
		name           string
		sex            models.Sex
		stats          models.PeriodStats
		wantCategory   models.Category
		wantConfidence models.Confidence
	}{
		{
			// High historical volume is the strongest signal.
			name: "Gertrude", sex: models.SexFemale,
			stats:        statsFor(50000, 10, 20000, 30),
			wantCategory: models.CategoryEstablished, wantConfidence: models.ConfidenceHigh,
		},
		{
			// Established but under the 10k high-confidence bar.
			name: "Norma", sex: models.SexFemale,
			stats:        statsFor(6000, 8, 2000, 30),
			wantCategory: models.CategoryEstablished, wantConfidence: models.ConfidenceLow,
		},
		{
			name: "Nevaeh", sex: models.SexFemale,
			stats:        statsFor(0, 0, 5125, 20),
			wantCategory: models.CategoryTrulyNew, wantConfidence: models.ConfidenceHigh,
		},
		{
			// Just under the TRULY_NEW modern threshold.
			name: "Kaelio", sex: models.SexMale,
			stats:        statsFor(0, 0, 99, 5),
			wantCategory: models.CategoryOther, wantConfidence: models.ConfidenceLow,
		},
		{
			// Exactly at the TRULY_NEW modern threshold.
			name: "Kaelio", sex: models.SexFemale,
			stats:        statsFor(0, 0, 100, 5),
			wantCategory: models.CategoryTrulyNew, wantConfidence: models.ConfidenceHigh,
		},
		{
			// Nonzero baseline means rare, not new.
			name: "Aiden", sex: models.SexMale,
			stats:        statsFor(76, 8, 252528, 33),
			wantCategory: models.CategoryEmerging, wantConfidence: models.ConfidenceMedium,
		},
		{
			// Established volume accelerating past the growth factor.
			name: "Isabella", sex: models.SexFemale,
			stats:        statsFor(8000, 10, 120000, 30),
			wantCategory: models.CategoryRising, wantConfidence: models.ConfidenceMedium,
		},
		{
			name: "Blip", sex: models.SexMale,
			stats:        statsFor(10, 2, 20, 3),
			wantCategory: models.CategoryOther, wantConfidence: models.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_"+string(tt.sex), func(t *testing.T) {
			cn := classifyOne(t, tt.name, tt.sex, tt.stats)
			assert.Equal(t, tt.wantCategory, cn.Category)
			assert.Equal(t, tt.wantConfidence, cn.Confidence)
		})
	}
}

func TestClassifyRisingRequiresEstablished(t *testing.T) {
	// Huge growth over a small baseline must stay EMERGING, not RISING:
	// rising only refines confirmed establishment.
	cn := classifyOne(t, "Aiden", models.SexMale, statsFor(76, 8, 252528, 33))
	assert.Equal(t, models.CategoryEmerging, cn.Category)
	assert.Greater(t, cn.GrowthRatio, DefaultThresholds().RisingGrowthFactor)
}

func TestClassifyOverridesForceCategoryAndHighConfidence(t *testing.T) {
	// Michael's stats here would compute EMERGING, the curated override
	// pins it to ESTABLISHED with HIGH confidence.
	cn := classifyOne(t, "Michael", models.SexMale, statsFor(76, 3, 90000, 30))
	assert.Equal(t, models.CategoryEstablished, cn.Category)
	assert.Equal(t, models.ConfidenceHigh, cn.Confidence)

	// Khaleesi appears in the known-modern list; even a (hypothetical)
	// sparse baseline cannot demote it.
	cn = classifyOne(t, "Khaleesi", models.SexFemale, statsFor(3, 1, 40, 5))
	assert.Equal(t, models.CategoryTrulyNew, cn.Category)
	assert.Equal(t, models.ConfidenceHigh, cn.Confidence)
}

func TestGrowthRatioConvention(t *testing.T) {
	assert.True(t, math.IsInf(GrowthRatio(0, 5), 1))
	assert.Equal(t, 0.0, GrowthRatio(0, 0))
	assert.Equal(t, 3.0, GrowthRatio(2, 6))
}

func TestClassifyGrowthRatioInfIffZeroBaselineWithModern(t *testing.T) {
	cn := classifyOne(t, "Nevaeh", models.SexFemale, statsFor(0, 0, 5125, 20))
	assert.True(t, math.IsInf(cn.GrowthRatio, 1))

	cn = classifyOne(t, "Aiden", models.SexMale, statsFor(76, 8, 252528, 33))
	assert.False(t, math.IsInf(cn.GrowthRatio, 1))
}

func TestClassifyAllIsDeterministic(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Gertrude", models.SexFemale, 1982, 6000),
		rec("Gertrude", models.SexFemale, 1983, 6000),
		rec("Gertrude", models.SexFemale, 1984, 6000),
		rec("Gertrude", models.SexFemale, 1985, 6000),
		rec("Gertrude", models.SexFemale, 1986, 6000),
		rec("Gertrude", models.SexFemale, 1995, 1200),
		rec("Nevaeh", models.SexFemale, 2001, 5125),
		rec("Aiden", models.SexMale, 1988, 76),
		rec("Aiden", models.SexMale, 2005, 9000),
	}

	first, err := ClassifyAll(records, 1990)
	assert.NoError(t, err)
	second, err := ClassifyAll(records, 1990)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, models.CategoryEstablished, first[models.NameKey{Name: "Gertrude", Sex: models.SexFemale}].Category)
	assert.Equal(t, models.CategoryTrulyNew, first[models.NameKey{Name: "Nevaeh", Sex: models.SexFemale}].Category)
	assert.Equal(t, models.CategoryEmerging, first[models.NameKey{Name: "Aiden", Sex: models.SexMale}].Category)
}

func TestClassifyAllEmptyInput(t *testing.T) {
	out, err := ClassifyAll(nil, 1990)
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilterEligibleKeepsExactlyNewAndEmerging(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Gertrude", models.SexFemale, 1982, 6000),
		rec("Gertrude", models.SexFemale, 1983, 6000),
		rec("Gertrude", models.SexFemale, 1984, 6000),
		rec("Gertrude", models.SexFemale, 1985, 6000),
		rec("Gertrude", models.SexFemale, 1986, 6000),
		rec("Nevaeh", models.SexFemale, 2001, 5125),
		rec("Aiden", models.SexMale, 1988, 76),
		rec("Aiden", models.SexMale, 2005, 9000),
		rec("Blip", models.SexMale, 1995, 20),
	}

	classified, err := ClassifyAll(records, 1990)
	assert.NoError(t, err)
	eligible := FilterEligible(classified)

	for key, cn := range eligible {
		full, ok := classified[key]
		assert.True(t, ok, "eligible row %v missing from classifier output", key)
		assert.Equal(t, full, cn)
		assert.Contains(t, []models.Category{models.CategoryTrulyNew, models.CategoryEmerging}, cn.Category)
	}
	assert.Contains(t, eligible, models.NameKey{Name: "Nevaeh", Sex: models.SexFemale})
	assert.Contains(t, eligible, models.NameKey{Name: "Aiden", Sex: models.SexMale})
	assert.NotContains(t, eligible, models.NameKey{Name: "Gertrude", Sex: models.SexFemale})
	assert.NotContains(t, eligible, models.NameKey{Name: "Blip", Sex: models.SexMale})
}

func TestExplainCoversEveryCategory(t *testing.T) {
	for _, category := range []models.Category{
		models.CategoryOther,
		models.CategoryEstablished,
		models.CategoryTrulyNew,
		models.CategoryEmerging,
		models.CategoryRising,
	} {
		assert.NotEmpty(t, Explain(category), "no explanation for %s", category)
	}
}
