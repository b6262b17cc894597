package main

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"github.com/brenton-keller/babynames/analysis"
	"github.com/brenton-keller/babynames/config"
	"github.com/brenton-keller/babynames/domain/models"
	"github.com/brenton-keller/babynames/namedata"
)

// ExplorerSession owns all data loaded for one interactive exploration:
// the raw datasets plus every derived table. It is created at session start
// and discarded at session end. The bot serves each update in its own
// goroutine against one session, so the derived tables are guarded by mu;
// the raw datasets are loaded before any handler runs and never mutated.
type ExplorerSession struct {
	CutoffYear int

	National []models.NameYearRecord
	State    []models.StateNameYearRecord

	mu         sync.Mutex
	Classified map[models.NameKey]models.ClassifiedName
	Eligible   map[models.NameKey]models.ClassifiedName
	Origins    map[models.NameKey]models.OriginResult
}

func NewExplorerSession(cutoffYear int) *ExplorerSession {
	return &ExplorerSession{CutoffYear: cutoffYear}
}

// EnsureData loads both datasets from the local cache, downloading and
// parsing the SSA archives first when the cache is cold.
func (s *ExplorerSession) EnsureData(cfg *config.Config) error {
	cache, err := namedata.OpenCache(filepath.Join(cfg.DataDir, "babynames.db"))
	if err != nil {
		return err
	}
	defer cache.Close()

	hasNational, err := cache.Has(namedata.DatasetNational)
	if err != nil {
		return err
	}
	if !hasNational {
		log.Println("national dataset not cached, downloading")
		dir, err := namedata.DownloadNational(cfg.DataDir)
		if err != nil {
			return err
		}
		records, err := namedata.ParseNationalDir(dir)
		if err != nil {
			return err
		}
		if err := cache.StoreNational(records); err != nil {
			return err
		}
	}
	s.National, err = cache.LoadNational()
	if err != nil {
		return err
	}

	hasState, err := cache.Has(namedata.DatasetState)
	if err != nil {
		return err
	}
	if !hasState {
		log.Println("state dataset not cached, downloading")
		dir, err := namedata.DownloadState(cfg.DataDir)
		if err != nil {
			return err
		}
		records, err := namedata.ParseStateDir(dir)
		if err != nil {
			return err
		}
		if err := cache.StoreState(records); err != nil {
			return err
		}
	}
	s.State, err = cache.LoadState()
	if err != nil {
		return err
	}

	log.Printf("loaded %d national rows, %d state rows", len(s.National), len(s.State))
	return nil
}

// Classify runs the classification pipeline and the eligibility projection
// over the loaded national data.
func (s *ExplorerSession) Classify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifyLocked()
}

func (s *ExplorerSession) classifyLocked() error {
	if len(s.National) == 0 {
		s.Classified = map[models.NameKey]models.ClassifiedName{}
		s.Eligible = map[models.NameKey]models.ClassifiedName{}
		return nil
	}
	classified, err := analysis.ClassifyAll(s.National, s.CutoffYear)
	if err != nil {
		return err
	}
	s.Classified = classified
	s.Eligible = analysis.FilterEligible(classified)
	log.Printf("classified %d names, %d eligible for origin detection", len(s.Classified), len(s.Eligible))
	return nil
}

// DetectOrigins runs the bulk origin detector over the eligible set,
// replacing any previously computed origin table.
func (s *ExplorerSession) DetectOrigins(params analysis.OriginParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Eligible == nil {
		if err := s.classifyLocked(); err != nil {
			return err
		}
	}
	origins, err := analysis.FindOrigins(s.State, s.Eligible, params)
	if err != nil {
		return err
	}
	s.Origins = origins
	return nil
}

// EnsureOrigins returns the origin table, running the detector on first use.
// Concurrent callers block until the first run finishes; the detection over
// millions of state rows happens once per session, not once per caller.
func (s *ExplorerSession) EnsureOrigins(params analysis.OriginParams) (map[models.NameKey]models.OriginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Origins != nil {
		return s.Origins, nil
	}
	if s.Eligible == nil {
		if err := s.classifyLocked(); err != nil {
			return nil, err
		}
	}
	origins, err := analysis.FindOrigins(s.State, s.Eligible, params)
	if err != nil {
		return nil, err
	}
	s.Origins = origins
	return s.Origins, nil
}

// CurrentOrigins returns the origin table as last computed, nil before any
// detection run. The returned map is never mutated after assignment.
func (s *ExplorerSession) CurrentOrigins() map[models.NameKey]models.OriginResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Origins
}

// CurrentClassified returns the classification table as last computed.
func (s *ExplorerSession) CurrentClassified() map[models.NameKey]models.ClassifiedName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Classified
}

// LookupClassification finds one classification row. The normalized form of
// the name is used, so "khaleesi" and "Khaleesi" hit the same row.
func (s *ExplorerSession) LookupClassification(name string, sex models.Sex) (models.ClassifiedName, bool) {
	key := models.NameKey{Name: namedata.NormalizeName(name), Sex: sex}
	s.mu.Lock()
	cn, ok := s.Classified[key]
	s.mu.Unlock()
	return cn, ok
}

// LookupOrigin investigates one name on demand with the relaxed single-name
// gate. A nil result with nil error means the name never cleared the
// data-sufficiency gate; an undetermined (null-origin) result comes back
// non-nil with an empty state.
func (s *ExplorerSession) LookupOrigin(name string, sex models.Sex) (*models.OriginResult, error) {
	cn, ok := s.LookupClassification(name, sex)
	if !ok {
		return nil, fmt.Errorf("%s (%s) is not in the classification table", name, sex)
	}
	return analysis.FindOriginFor(cn, s.State, analysis.SingleNameOriginParams())
}

// TrendSeries builds the national births-per-year series for one name,
// sorted by year, for plotting.
func (s *ExplorerSession) TrendSeries(name string, sex models.Sex) ([]int, []float64) {
	normalized := namedata.NormalizeName(name)
	byYear := map[int]int{}
	for _, r := range s.National {
		if r.Name == normalized && r.Sex == sex {
			byYear[r.Year] += r.Births
		}
	}
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	births := make([]float64, len(years))
	for i, year := range years {
		births[i] = float64(byYear[year])
	}
	return years, births
}
