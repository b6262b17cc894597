package namedata

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"

	"github.com/brenton-keller/babynames/domain/models"
)

var sexCodes = []string{"M", "F"}

// NormalizeName folds the raw name to ASCII and title-cases it, so lookups
// and override tables agree on one spelling per name.
func NormalizeName(raw string) string {
	folded := strings.TrimSpace(unidecode.Unidecode(strings.TrimSpace(raw)))
	if folded == "" {
		return ""
	}
	return strings.ToUpper(folded[:1]) + strings.ToLower(folded[1:])
}

// yearFromFilename extracts the year from a national file name (yob1880.txt).
func yearFromFilename(base string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(base), "yob"), ".txt")
	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("cannot read year from filename %q: %w", base, err)
	}
	return year, nil
}

// ParseNationalFile reads one SSA per-year national file (lines like
// "Mary,F,7065"; the year lives in the filename). Malformed lines are
// skipped with a log line, never a crash.
func ParseNationalFile(path string) ([]models.NameYearRecord, error) {
	year, err := yearFromFilename(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records := []models.NameYearRecord{}
	skipped := 0
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		if len(row) < 3 {
			skipped++
			continue
		}
		sex := strings.ToUpper(strings.TrimSpace(row[1]))
		births, convErr := strconv.Atoi(strings.TrimSpace(row[2]))
		if !go_utils.InArray(sex, sexCodes) || convErr != nil || births < 0 {
			skipped++
			continue
		}
		records = append(records, models.NameYearRecord{
			Name:   NormalizeName(row[0]),
			Sex:    models.Sex(sex),
			Year:   year,
			Births: births,
		})
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed lines in %s", skipped, filepath.Base(path))
	}
	return records, nil
}

// ParseNationalDir parses every yob*.txt in dir into one row set, sorted by
// filename so repeat runs produce the same slice. Duplicate name+sex+year
// rows are reported, not corrected: the source does not guarantee
// uniqueness and the aggregator tolerates them.
func ParseNationalDir(dir string) ([]models.NameYearRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "yob*.txt"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no yob*.txt files in %s", dir)
	}
	sort.Strings(paths)

	all := []models.NameYearRecord{}
	for _, path := range paths {
		records, err := ParseNationalFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	reportNationalDuplicates(all)
	return all, nil
}

func reportNationalDuplicates(records []models.NameYearRecord) int {
	type rowKey struct {
		name string
		sex  models.Sex
		year int
	}
	seen := make(map[rowKey]bool, len(records))
	duplicates := 0
	for _, r := range records {
		k := rowKey{name: r.Name, sex: r.Sex, year: r.Year}
		if seen[k] {
			duplicates++
		}
		seen[k] = true
	}
	if duplicates > 0 {
		log.Printf("national data contains %d duplicate name+sex+year rows", duplicates)
	}
	return duplicates
}

func reportStateDuplicates(records []models.StateNameYearRecord) int {
	type rowKey struct {
		state string
		name  string
		sex   models.Sex
		year  int
	}
	seen := make(map[rowKey]bool, len(records))
	duplicates := 0
	for _, r := range records {
		k := rowKey{state: r.State, name: r.Name, sex: r.Sex, year: r.Year}
		if seen[k] {
			duplicates++
		}
		seen[k] = true
	}
	if duplicates > 0 {
		log.Printf("state data contains %d duplicate state+name+sex+year rows", duplicates)
	}
	return duplicates
}

// ParseStateFile reads one SSA state file (lines like "AK,F,1910,Annie,12").
func ParseStateFile(path string) ([]models.StateNameYearRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records := []models.StateNameYearRecord{}
	skipped := 0
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		if len(row) < 5 {
			skipped++
			continue
		}
		state := strings.ToUpper(strings.TrimSpace(row[0]))
		sex := strings.ToUpper(strings.TrimSpace(row[1]))
		year, yearErr := strconv.Atoi(strings.TrimSpace(row[2]))
		births, birthsErr := strconv.Atoi(strings.TrimSpace(row[4]))
		if len(state) != 2 || !go_utils.InArray(sex, sexCodes) ||
			yearErr != nil || birthsErr != nil || births < 0 {
			skipped++
			continue
		}
		records = append(records, models.StateNameYearRecord{
			State:  state,
			Name:   NormalizeName(row[3]),
			Sex:    models.Sex(sex),
			Year:   year,
			Births: births,
		})
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed lines in %s", skipped, filepath.Base(path))
	}
	return records, nil
}

// ParseStateDir parses every two-letter *.TXT file in dir (AK.TXT ... WY.TXT).
// Duplicate state+name+sex+year rows are reported, not corrected, same as on
// the national side.
func ParseStateDir(dir string) ([]models.StateNameYearRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.TXT"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.TXT files in %s", dir)
	}
	sort.Strings(paths)

	all := []models.StateNameYearRecord{}
	for _, path := range paths {
		records, err := ParseStateFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	reportStateDuplicates(all)
	return all, nil
}
