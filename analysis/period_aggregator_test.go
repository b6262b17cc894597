package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brenton-keller/babynames/domain/models"
)

func rec(name string, sex models.Sex, year, births int) models.NameYearRecord {
	return models.NameYearRecord{Name: name, Sex: sex, Year: year, Births: births}
}

func TestAggregatePeriodsSplitsWindows(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Aiden", models.SexMale, 1985, 30),
		rec("Aiden", models.SexMale, 1987, 46),
		rec("Aiden", models.SexMale, 1990, 100),
		rec("Aiden", models.SexMale, 1991, 200),
	}

	stats, err := AggregatePeriods(records, 1990, 10)
	assert.NoError(t, err)
	assert.Len(t, stats, 1)

	ps := stats[models.NameKey{Name: "Aiden", Sex: models.SexMale}]
	assert.True(t, ps.BaselineSeen)
	assert.Equal(t, 76, ps.BaselineTotalBirths)
	assert.Equal(t, 2, ps.BaselineYearsPresent)
	assert.Equal(t, 38.0, ps.BaselineAvgAnnual)
	assert.Equal(t, 1987, ps.BaselinePeakYear)
	assert.Equal(t, 46, ps.BaselinePeakBirths)
	assert.Equal(t, 1985, ps.BaselineFirstYear)
	assert.Equal(t, 1987, ps.BaselineLastYear)

	assert.True(t, ps.ModernSeen)
	assert.Equal(t, 300, ps.ModernTotalBirths)
	assert.Equal(t, 2, ps.ModernYearsPresent)
	assert.Equal(t, 150.0, ps.ModernAvgAnnual)
	assert.Equal(t, 1991, ps.ModernPeakYear)
	assert.Equal(t, 200, ps.ModernPeakBirths)
	assert.Equal(t, 1990, ps.ModernFirstYear)
}

func TestAggregatePeriodsOneSidedKeysDefaultToZero(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Nevaeh", models.SexFemale, 2001, 500),
		rec("Mildred", models.SexFemale, 1982, 700),
	}

	stats, err := AggregatePeriods(records, 1990, 10)
	assert.NoError(t, err)

	modernOnly := stats[models.NameKey{Name: "Nevaeh", Sex: models.SexFemale}]
	assert.False(t, modernOnly.BaselineSeen)
	assert.Equal(t, 0, modernOnly.BaselineTotalBirths)
	assert.Equal(t, 0.0, modernOnly.BaselineAvgAnnual)
	assert.Equal(t, 500, modernOnly.ModernTotalBirths)

	baselineOnly := stats[models.NameKey{Name: "Mildred", Sex: models.SexFemale}]
	assert.False(t, baselineOnly.ModernSeen)
	assert.Equal(t, 0, baselineOnly.ModernTotalBirths)
	assert.Equal(t, 700, baselineOnly.BaselineTotalBirths)
}

func TestAggregatePeriodsSkipsYearsBeforeBaselineWindow(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Zelda", models.SexFemale, 1920, 400),
	}

	stats, err := AggregatePeriods(records, 1990, 10)
	assert.NoError(t, err)
	// Present in zero window years means no row, not a zero row.
	assert.Empty(t, stats)
}

func TestAggregatePeriodsDuplicateYearRowsCountYearOnce(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Aiden", models.SexMale, 1991, 100),
		rec("Aiden", models.SexMale, 1991, 100),
	}

	stats, err := AggregatePeriods(records, 1990, 10)
	assert.NoError(t, err)

	ps := stats[models.NameKey{Name: "Aiden", Sex: models.SexMale}]
	assert.Equal(t, 200, ps.ModernTotalBirths)
	assert.Equal(t, 1, ps.ModernYearsPresent)
	assert.Equal(t, 200.0, ps.ModernAvgAnnual)
}

func TestAggregatePeriodsSexesAreSeparateKeys(t *testing.T) {
	records := []models.NameYearRecord{
		rec("Jordan", models.SexMale, 1991, 900),
		rec("Jordan", models.SexFemale, 1991, 400),
	}

	stats, err := AggregatePeriods(records, 1990, 10)
	assert.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, 900, stats[models.NameKey{Name: "Jordan", Sex: models.SexMale}].ModernTotalBirths)
	assert.Equal(t, 400, stats[models.NameKey{Name: "Jordan", Sex: models.SexFemale}].ModernTotalBirths)
}

func TestAggregatePeriodsEmptyInputYieldsEmptyTable(t *testing.T) {
	stats, err := AggregatePeriods(nil, 1990, 10)
	assert.NoError(t, err)
	assert.Empty(t, stats)
}

func TestAggregatePeriodsRejectsNonPositiveBaselineYears(t *testing.T) {
	_, err := AggregatePeriods(nil, 1990, 0)
	assert.Error(t, err)
	_, err = AggregatePeriods(nil, 1990, -3)
	assert.Error(t, err)
}
