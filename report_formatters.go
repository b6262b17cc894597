package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/brenton-keller/babynames/analysis"
	"github.com/brenton-keller/babynames/domain/models"
)

var countPrinter = message.NewPrinter(language.English)

// formatCount renders a birth count with thousands separators.
func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

func formatGrowthDisplay(growth float64) string {
	if math.IsInf(growth, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", growth)
}

var categoryOrder = []models.Category{
	models.CategoryEstablished,
	models.CategoryRising,
	models.CategoryEmerging,
	models.CategoryTrulyNew,
	models.CategoryOther,
}

// GenerateClassificationSummaryTable renders per-category counts over one
// classification run.
func GenerateClassificationSummaryTable(classified map[models.NameKey]models.ClassifiedName) string {
	counts := map[models.Category]int{}
	modernBirths := map[models.Category]int{}
	highConfidence := map[models.Category]int{}
	for _, cn := range classified {
		counts[cn.Category]++
		modernBirths[cn.Category] += cn.ModernTotalBirths
		if cn.Confidence == models.ConfidenceHigh {
			highConfidence[cn.Category]++
		}
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Classification", "Names", "ModernBirths", "HighConfidence"})
	for _, category := range categoryOrder {
		t.AppendRows([]table.Row{
			{category.String(), counts[category], formatCount(modernBirths[category]), highConfidence[category]},
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateTopNamesTable renders the top n names of one category by modern
// birth volume.
func GenerateTopNamesTable(classified map[models.NameKey]models.ClassifiedName, category models.Category, n int) string {
	rows := []models.ClassifiedName{}
	for _, cn := range classified {
		if cn.Category == category {
			rows = append(rows, cn)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ModernTotalBirths != rows[j].ModernTotalBirths {
			return rows[i].ModernTotalBirths > rows[j].ModernTotalBirths
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Sex < rows[j].Sex
	})
	if len(rows) > n {
		rows = rows[:n]
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Sex", "ModernBirths", "Growth", "Confidence"})
	for _, cn := range rows {
		t.AppendRows([]table.Row{
			{cn.Name, string(cn.Sex), formatCount(cn.ModernTotalBirths), formatGrowthDisplay(cn.GrowthRatio), string(cn.Confidence)},
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateOriginsTable renders origin results sorted by confidence,
// determined rows first. Undetermined rows show a dash for the state.
func GenerateOriginsTable(origins map[models.NameKey]models.OriginResult, limit int) string {
	rows := []models.OriginResult{}
	for _, r := range origins {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Confidence != rows[j].Confidence {
			return rows[i].Confidence > rows[j].Confidence
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Sex < rows[j].Sex
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Sex", "State", "Year", "Confidence", "EarlyStates", "EarlyBirths"})
	for _, r := range rows {
		state := r.OriginState
		year := fmt.Sprintf("%d", r.OriginYear)
		if !r.Determined() {
			state = "-"
			year = "-"
		}
		t.AppendRows([]table.Row{
			{r.Name, string(r.Sex), state, year, fmt.Sprintf("%.2f", r.Confidence), r.NEarlyStates, formatCount(r.TotalEarlyBirths)},
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// FormatClassification renders one classification row for chat output.
func FormatClassification(cn models.ClassifiedName) string {
	baselineLine := "no recorded baseline births"
	if cn.BaselineSeen {
		baselineLine = fmt.Sprintf("%s births over %d years (peak %s in %d)",
			formatCount(cn.BaselineTotalBirths), cn.BaselineYearsPresent,
			formatCount(cn.BaselinePeakBirths), cn.BaselinePeakYear)
	}
	modernLine := "no recorded modern births"
	if cn.ModernSeen {
		modernLine = fmt.Sprintf("%s births over %d years (peak %s in %d)",
			formatCount(cn.ModernTotalBirths), cn.ModernYearsPresent,
			formatCount(cn.ModernPeakBirths), cn.ModernPeakYear)
	}

	return fmt.Sprintf(`📊 %s (%s): %s — confidence %s

Baseline: %s
Modern: %s
Growth ratio: %s

%s`,
		cn.Name, cn.Sex, cn.Category, cn.Confidence,
		baselineLine,
		modernLine,
		formatGrowthDisplay(cn.GrowthRatio),
		capitalize(analysis.Explain(cn.Category)))
}

// FormatOrigin renders one origin result for chat output.
func FormatOrigin(r models.OriginResult) string {
	if !r.Determined() {
		return fmt.Sprintf(`🗺 %s (%s): origin could not be determined

Only %d state(s) appeared in the early adoption window (%s early births). That is below the minimum needed to separate a real origin from noise.`,
			r.Name, r.Sex, r.NEarlyStates, formatCount(r.TotalEarlyBirths))
	}
	return fmt.Sprintf(`🗺 %s (%s): most likely origin %s, %d

Confidence: %.2f
States in early window: %d
Births in early window: %s`,
		r.Name, r.Sex, r.OriginState, r.OriginYear,
		r.Confidence, r.NEarlyStates, formatCount(r.TotalEarlyBirths))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
