package models

// Sex code as it appears in the SSA files.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// NameKey identifies one name+sex series across years.
type NameKey struct {
	Name string
	Sex  Sex
}

// NameYearRecord is one row of the national dataset (1880+).
type NameYearRecord struct {
	Name   string
	Sex    Sex
	Year   int
	Births int
}

// StateNameYearRecord is one row of the state dataset (1910+).
type StateNameYearRecord struct {
	State  string
	Name   string
	Sex    Sex
	Year   int
	Births int
}

// Category is the adoption category assigned by the classifier. The set is
// closed; behavior derived from it (explanations, eligibility) switches
// exhaustively so a new category is a compile-visible change, not a silently
// ignored string.
type Category int

const (
	CategoryOther Category = iota
	CategoryEstablished
	CategoryTrulyNew
	CategoryEmerging
	CategoryRising
)

func (c Category) String() string {
	switch c {
	case CategoryEstablished:
		return "ESTABLISHED"
	case CategoryTrulyNew:
		return "TRULY_NEW"
	case CategoryEmerging:
		return "EMERGING"
	case CategoryRising:
		return "RISING"
	case CategoryOther:
		return "OTHER"
	}
	return "OTHER"
}

// ParseCategory maps the stored string form back to a Category. Unknown
// strings fall back to OTHER.
func ParseCategory(s string) Category {
	switch s {
	case "ESTABLISHED":
		return CategoryEstablished
	case "TRULY_NEW":
		return CategoryTrulyNew
	case "EMERGING":
		return CategoryEmerging
	case "RISING":
		return CategoryRising
	}
	return CategoryOther
}

// Confidence is the categorical confidence label attached to a classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// PeriodStats merges the baseline-window and modern-window aggregates for
// one name+sex key. Numeric fields default to 0 when the key never appears
// in that window; the Seen flags keep "no data" distinguishable from "zero
// births observed".
type PeriodStats struct {
	BaselineTotalBirths  int
	BaselineYearsPresent int
	BaselineAvgAnnual    float64
	BaselinePeakYear     int
	BaselinePeakBirths   int
	BaselineFirstYear    int
	BaselineLastYear     int
	BaselineSeen         bool

	ModernTotalBirths  int
	ModernYearsPresent int
	ModernAvgAnnual    float64
	ModernPeakYear     int
	ModernPeakBirths   int
	ModernFirstYear    int
	ModernSeen         bool
}

// ClassifiedName is one classification row: merged period stats plus the
// derived growth ratio, category and confidence label. Rows are produced
// once per run and never mutated.
type ClassifiedName struct {
	Name string
	Sex  Sex
	PeriodStats

	// GrowthRatio is modern avg / baseline avg, +Inf when the baseline
	// average is exactly 0 and the modern average is positive.
	GrowthRatio float64
	Category    Category
	Confidence  Confidence
}

func (c ClassifiedName) Key() NameKey {
	return NameKey{Name: c.Name, Sex: c.Sex}
}

// OriginCandidate is the per-state scoring row built while detecting a
// name's origin. Candidates live only for the duration of one detection.
type OriginCandidate struct {
	State            string
	TotalBirths      int
	YearsPresent     int
	FirstYearInState int
	PopAdjustedProp  float64
	EarlyBonus       float64
	Consistency      float64
	OriginScore      float64
}

// OriginResult is the detector's output for one eligible name. An empty
// OriginState with Confidence 0 is a real "origin could not be determined"
// row; a name that never reached scoring has no row at all.
type OriginResult struct {
	Name             string
	Sex              Sex
	OriginState      string
	OriginYear       int
	Confidence       float64
	TotalEarlyBirths int
	NEarlyStates     int
	Category         Category
}

func (r OriginResult) Key() NameKey {
	return NameKey{Name: r.Name, Sex: r.Sex}
}

// Determined reports whether the detector actually picked a state.
func (r OriginResult) Determined() bool {
	return r.OriginState != ""
}
