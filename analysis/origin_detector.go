package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/brenton-keller/babynames/domain/models"
)

// earlyWindowSpan is the number of years (inclusive of the first appearance
// year) inside which geographic origin signal is assumed to live. Fixed:
// the scoring constants below are tuned to it.
const earlyWindowSpan = 5

// OriginParams gates and tunes one origin-detection run.
type OriginParams struct {
	// MinTotalBirths is the data-sufficiency gate: keys with fewer total
	// births across all states are dropped before scoring (no result row).
	MinTotalBirths int
	// MinStates is the minimum number of states that must appear in the
	// early window for an origin to be picked; below it the key gets an
	// explicit null-origin row.
	MinStates int
	// ConfidenceThreshold splits the result set into confident and
	// uncertain subsets. Results below it are kept, just segregated.
	ConfidenceThreshold float64
}

// DefaultOriginParams are the bulk-run defaults.
func DefaultOriginParams() OriginParams {
	return OriginParams{MinTotalBirths: 100, MinStates: 5, ConfidenceThreshold: 0.6}
}

// SingleNameOriginParams relaxes the state gate for interactive single-name
// investigation, where a researcher wants an answer even off sparse data.
func SingleNameOriginParams() OriginParams {
	p := DefaultOriginParams()
	p.MinStates = 3
	return p
}

func (p OriginParams) validate() error {
	if p.MinTotalBirths <= 0 {
		return fmt.Errorf("origin params: MinTotalBirths must be positive, got %d", p.MinTotalBirths)
	}
	if p.MinStates <= 0 {
		return fmt.Errorf("origin params: MinStates must be positive, got %d", p.MinStates)
	}
	return nil
}

type stateYear struct {
	state string
	year  int
}

// buildStateSizeIndex sums births over all names and sexes per state+year.
// The totals proxy each state's general birth population, so a handful of
// births in a tiny state does not look as significant as the same count in
// California.
func buildStateSizeIndex(records []models.StateNameYearRecord) map[stateYear]int {
	index := make(map[stateYear]int)
	for _, r := range records {
		index[stateYear{state: r.State, year: r.Year}] += r.Births
	}
	return index
}

// stateWindowAgg is the per-state accumulation over one key's early window.
type stateWindowAgg struct {
	births    int
	years     map[int]bool
	firstYear int
}

// FindOrigins scores every state's early adoption of each eligible name and
// picks the best origin candidate per key, with a blended confidence score.
// Keys below the total-births gate produce no row; keys that reach scoring
// but fail the state gate produce a null-origin row, so "not analyzed" and
// "analyzed, undetermined" stay distinguishable.
func FindOrigins(stateRecords []models.StateNameYearRecord, eligible map[models.NameKey]models.ClassifiedName, params OriginParams) (map[models.NameKey]models.OriginResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	// Inner join: only rows for eligible keys are grouped. The size index
	// still runs over everything, it measures states, not names.
	sizeIndex := buildStateSizeIndex(stateRecords)
	grouped := map[models.NameKey][]models.StateNameYearRecord{}
	for _, r := range stateRecords {
		key := models.NameKey{Name: r.Name, Sex: r.Sex}
		if _, ok := eligible[key]; !ok {
			continue
		}
		grouped[key] = append(grouped[key], r)
	}

	out := make(map[models.NameKey]models.OriginResult, len(grouped))
	for key, rows := range grouped {
		result, ok := detectOrigin(key, eligible[key].Category, rows, sizeIndex, params)
		if ok {
			out[key] = result
		}
	}
	return out, nil
}

// FindOriginFor investigates a single classified name against the state
// dataset. It returns nil (not an error) when the name never clears the
// total-births gate or is absent from state data.
func FindOriginFor(cn models.ClassifiedName, stateRecords []models.StateNameYearRecord, params OriginParams) (*models.OriginResult, error) {
	eligible := map[models.NameKey]models.ClassifiedName{cn.Key(): cn}
	results, err := FindOrigins(stateRecords, eligible, params)
	if err != nil {
		return nil, err
	}
	result, ok := results[cn.Key()]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func detectOrigin(key models.NameKey, category models.Category, rows []models.StateNameYearRecord, sizeIndex map[stateYear]int, params OriginParams) (models.OriginResult, bool) {
	totalBirths := 0
	firstYear := 0
	for _, r := range rows {
		totalBirths += r.Births
		if firstYear == 0 || r.Year < firstYear {
			firstYear = r.Year
		}
	}
	// Data-sufficiency gate: too few births nationwide in state data means
	// no row at all, the key was never analyzed.
	if totalBirths < params.MinTotalBirths {
		return models.OriginResult{}, false
	}

	windowEnd := firstYear + earlyWindowSpan - 1
	perState := map[string]*stateWindowAgg{}
	totalEarlyBirths := 0
	for _, r := range rows {
		if r.Year < firstYear || r.Year > windowEnd {
			continue
		}
		agg := perState[r.State]
		if agg == nil {
			agg = &stateWindowAgg{years: map[int]bool{}}
			perState[r.State] = agg
		}
		agg.births += r.Births
		agg.years[r.Year] = true
		if agg.firstYear == 0 || r.Year < agg.firstYear {
			agg.firstYear = r.Year
		}
		totalEarlyBirths += r.Births
	}

	nullResult := models.OriginResult{
		Name:             key.Name,
		Sex:              key.Sex,
		TotalEarlyBirths: totalEarlyBirths,
		NEarlyStates:     len(perState),
		Category:         category,
	}
	if len(perState) == 0 {
		// Cannot happen given firstYear is drawn from the same rows, but an
		// empty window is still a null origin, never a panic.
		return nullResult, true
	}
	if len(perState) < params.MinStates {
		return nullResult, true
	}

	candidates := scoreStates(perState, firstYear, sizeIndex)

	winner := candidates[0]
	confidence := blendConfidence(candidates, winner, firstYear)

	return models.OriginResult{
		Name:             key.Name,
		Sex:              key.Sex,
		OriginState:      winner.State,
		OriginYear:       winner.FirstYearInState,
		Confidence:       confidence,
		TotalEarlyBirths: totalEarlyBirths,
		NEarlyStates:     len(perState),
		Category:         category,
	}, true
}

// scoreStates computes the per-state origin metrics and returns candidates
// sorted best-first. Ties on score break toward the lexically smaller state
// code so repeat runs stay deterministic.
func scoreStates(perState map[string]*stateWindowAgg, firstYear int, sizeIndex map[stateYear]int) []models.OriginCandidate {
	candidates := make([]models.OriginCandidate, 0, len(perState))
	for state, agg := range perState {
		// State size proxy averaged over the window years this name is
		// actually present in the state.
		sizeSum := 0
		for year := range agg.years {
			sizeSum += sizeIndex[stateYear{state: state, year: year}]
		}
		avgStateSize := float64(sizeSum) / float64(len(agg.years))

		popAdjusted := 0.0
		if avgStateSize > 0 {
			popAdjusted = float64(agg.births) / avgStateSize
		}
		earlyBonus := math.Max(0, float64(earlyWindowSpan-(agg.firstYear-firstYear)))
		consistency := float64(len(agg.years)) / float64(earlyWindowSpan)

		// The 1000x on the population-adjusted share is deliberate: raw
		// proportions are far below 1 and must land in the same magnitude
		// as the additive terms.
		score := math.Log(1+float64(agg.births))*2 +
			popAdjusted*1000 +
			earlyBonus*3 +
			consistency*4

		candidates = append(candidates, models.OriginCandidate{
			State:            state,
			TotalBirths:      agg.births,
			YearsPresent:     len(agg.years),
			FirstYearInState: agg.firstYear,
			PopAdjustedProp:  popAdjusted,
			EarlyBonus:       earlyBonus,
			Consistency:      consistency,
			OriginScore:      score,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].OriginScore != candidates[j].OriginScore {
			return candidates[i].OriginScore > candidates[j].OriginScore
		}
		return candidates[i].State < candidates[j].State
	})
	return candidates
}

// blendConfidence combines four independent [0,1] sub-scores. No single
// signal is trustworthy alone on sparse early-adoption data; the weights
// make a state earn high confidence only by being early, volumetrically
// significant and consistent at once.
func blendConfidence(candidates []models.OriginCandidate, winner models.OriginCandidate, firstYear int) float64 {
	separation := 1.0 // a lone candidate is maximally separated by convention
	if len(candidates) >= 2 {
		separation = (candidates[0].OriginScore - candidates[1].OriginScore) / candidates[0].OriginScore
	}

	earlyEmergence := 0.4
	if winner.FirstYearInState == firstYear {
		earlyEmergence = 0.8
	}

	consistencyConf := math.Min(1.0, float64(winner.YearsPresent)/3)
	volumeConf := math.Min(1.0, math.Log(1+float64(winner.TotalBirths))/10)

	return 0.3*separation + 0.3*earlyEmergence + 0.2*consistencyConf + 0.2*volumeConf
}

// ConfidentOrigins returns the subset of determined results at or above the
// threshold. Rows below it stay in the full result set; callers decide what
// to surface.
func ConfidentOrigins(results map[models.NameKey]models.OriginResult, threshold float64) map[models.NameKey]models.OriginResult {
	out := map[models.NameKey]models.OriginResult{}
	for key, r := range results {
		if r.Determined() && r.Confidence >= threshold {
			out[key] = r
		}
	}
	return out
}
