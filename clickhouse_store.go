package main

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"

	uuid "github.com/satori/go.uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brenton-keller/babynames/domain/models"
)

// newTableSuffix generates a short unique suffix for a pair of result
// tables, so repeated saves never clobber each other.
func newTableSuffix() string {
	return getMD5String(uuid.NewV4().String())[:6]
}

// ClickHouse speaks the MySQL wire protocol on its mysql port, so the plain
// gorm mysql driver is enough for DDL and FORMAT CSV inserts.
func connectClickHouse(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to clickhouse: %w", err)
	}
	return db, nil
}

func getMD5String(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	hashBytes := hasher.Sum(nil)
	hashString := hex.EncodeToString(hashBytes)
	return hashString
}

const insertBatchSize = 5000

func generateCreateClassifiedSQL(tableName string) string {
	return `CREATE TABLE ` + tableName + ` (
name String,
sex String,
baseline_total_births Int64,
baseline_years_present Int64,
baseline_avg_annual Float64,
baseline_peak_year Int64,
baseline_peak_births Int64,
baseline_first_year Int64,
baseline_last_year Int64,
modern_total_births Int64,
modern_years_present Int64,
modern_avg_annual Float64,
modern_peak_year Int64,
modern_peak_births Int64,
modern_first_year Int64,
growth_ratio Float64,
classification String,
classification_confidence String
) ENGINE = ReplacingMergeTree PRIMARY KEY (name, sex) SETTINGS index_granularity = 8192`
}

func generateCreateOriginsSQL(tableName string) string {
	return `CREATE TABLE ` + tableName + ` (
name String,
sex String,
origin_state String,
origin_year Int64,
confidence_score Float64,
total_early_births Int64,
n_early_states Int64,
classification String
) ENGINE = ReplacingMergeTree PRIMARY KEY (name, sex) SETTINGS index_granularity = 8192`
}

// formatGrowth writes the growth ratio in a form ClickHouse accepts as a
// Float64, including the +Inf convention for zero-baseline names.
func formatGrowth(growth float64) string {
	if math.IsInf(growth, 1) {
		return "inf"
	}
	return strconv.FormatFloat(growth, 'f', -1, 64)
}

func recreateTable(db *gorm.DB, tableName, createSQL string) error {
	if tx := db.Exec("DROP TABLE IF EXISTS " + tableName); tx.Error != nil {
		return tx.Error
	}
	if tx := db.Exec(createSQL); tx.Error != nil {
		return tx.Error
	}
	return nil
}

func insertCSVBatches(db *gorm.DB, tableName string, rows [][]string) error {
	b := bytes.NewBufferString("")
	csvWriter := csv.NewWriter(b)
	for i, row := range rows {
		if err := csvWriter.Write(row); err != nil {
			return err
		}
		if (i+1)%insertBatchSize == 0 {
			csvWriter.Flush()
			tx := db.Exec(fmt.Sprintf("INSERT INTO "+tableName+" FORMAT CSV \n%s", b.String()))
			b.Reset()
			if tx.Error != nil {
				log.Println(tx.Error)
				return tx.Error
			}
		}
	}
	csvWriter.Flush()
	if b.Len() > 0 {
		if tx := db.Exec(fmt.Sprintf("INSERT INTO "+tableName+" FORMAT CSV \n%s", b.String())); tx.Error != nil {
			return tx.Error
		}
	}
	return nil
}

// saveClassifiedToClickHouse persists one classification run into a fresh
// classified_names_<suffix> table and returns the table name.
func saveClassifiedToClickHouse(db *gorm.DB, suffix string, classified map[models.NameKey]models.ClassifiedName) (string, error) {
	tableName := "classified_names_" + suffix
	if err := recreateTable(db, tableName, generateCreateClassifiedSQL(tableName)); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(classified))
	for _, cn := range classified {
		rows = append(rows, []string{
			cn.Name,
			string(cn.Sex),
			strconv.Itoa(cn.BaselineTotalBirths),
			strconv.Itoa(cn.BaselineYearsPresent),
			strconv.FormatFloat(cn.BaselineAvgAnnual, 'f', -1, 64),
			strconv.Itoa(cn.BaselinePeakYear),
			strconv.Itoa(cn.BaselinePeakBirths),
			strconv.Itoa(cn.BaselineFirstYear),
			strconv.Itoa(cn.BaselineLastYear),
			strconv.Itoa(cn.ModernTotalBirths),
			strconv.Itoa(cn.ModernYearsPresent),
			strconv.FormatFloat(cn.ModernAvgAnnual, 'f', -1, 64),
			strconv.Itoa(cn.ModernPeakYear),
			strconv.Itoa(cn.ModernPeakBirths),
			strconv.Itoa(cn.ModernFirstYear),
			formatGrowth(cn.GrowthRatio),
			cn.Category.String(),
			string(cn.Confidence),
		})
	}
	sortRowsByNameSex(rows)
	if err := insertCSVBatches(db, tableName, rows); err != nil {
		return "", err
	}
	log.Printf("saved %d classified names into %s", len(rows), tableName)
	return tableName, nil
}

// saveOriginsToClickHouse persists one origin-detection run into a fresh
// name_origins_<suffix> table and returns the table name.
func saveOriginsToClickHouse(db *gorm.DB, suffix string, origins map[models.NameKey]models.OriginResult) (string, error) {
	tableName := "name_origins_" + suffix
	if err := recreateTable(db, tableName, generateCreateOriginsSQL(tableName)); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(origins))
	for _, r := range origins {
		rows = append(rows, []string{
			r.Name,
			string(r.Sex),
			r.OriginState,
			strconv.Itoa(r.OriginYear),
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
			strconv.Itoa(r.TotalEarlyBirths),
			strconv.Itoa(r.NEarlyStates),
			r.Category.String(),
		})
	}
	sortRowsByNameSex(rows)
	if err := insertCSVBatches(db, tableName, rows); err != nil {
		return "", err
	}
	log.Printf("saved %d origin results into %s", len(rows), tableName)
	return tableName, nil
}

func sortRowsByNameSex(rows [][]string) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}
		return rows[i][1] < rows[j][1]
	})
}
