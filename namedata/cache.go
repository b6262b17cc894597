package namedata

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/brenton-keller/babynames/domain/models"
)

// Cache is the local SQLite store of parsed SSA records. It exists so the
// multi-megabyte archives are downloaded and parsed once, not per session;
// it is an optimization, not a data contract.
type Cache struct {
	db   *sql.DB
	path string
}

const (
	DatasetNational = "national"
	DatasetState    = "state"
)

// OpenCache opens (or creates) the cache database and applies migrations.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS national_names (
			name TEXT NOT NULL,
			sex TEXT NOT NULL,
			year INTEGER NOT NULL,
			births INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS state_names (
			state TEXT NOT NULL,
			name TEXT NOT NULL,
			sex TEXT NOT NULL,
			year INTEGER NOT NULL,
			births INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_meta (
			dataset TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		)`,
	}
	for _, migration := range migrations {
		if _, execErr := db.Exec(migration); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migration: %w", execErr)
		}
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Has reports whether the given dataset has been stored.
func (c *Cache) Has(dataset string) (bool, error) {
	var count int
	err := c.db.QueryRow(`SELECT count(*) FROM dataset_meta WHERE dataset = ?`, dataset).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *Cache) markStored(tx *sql.Tx, dataset string, rows int) error {
	_, err := tx.Exec(
		`INSERT INTO dataset_meta (dataset, fetched_at, row_count) VALUES (?, ?, ?)
		 ON CONFLICT(dataset) DO UPDATE SET fetched_at = excluded.fetched_at, row_count = excluded.row_count`,
		dataset, time.Now().UTC().Format(time.RFC3339), rows)
	return err
}

// StoreNational replaces the cached national dataset.
func (c *Cache) StoreNational(records []models.NameYearRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM national_names`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO national_names (name, sex, year, births) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.Exec(r.Name, string(r.Sex), r.Year, r.Births); err != nil {
			return err
		}
	}
	if err := c.markStored(tx, DatasetNational, len(records)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadNational returns the cached national dataset.
func (c *Cache) LoadNational() ([]models.NameYearRecord, error) {
	rows, err := c.db.Query(`SELECT name, sex, year, births FROM national_names ORDER BY year, sex, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.NameYearRecord{}
	for rows.Next() {
		var r models.NameYearRecord
		var sex string
		if err := rows.Scan(&r.Name, &sex, &r.Year, &r.Births); err != nil {
			return nil, err
		}
		r.Sex = models.Sex(sex)
		records = append(records, r)
	}
	return records, rows.Err()
}

// StoreState replaces the cached state dataset.
func (c *Cache) StoreState(records []models.StateNameYearRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM state_names`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO state_names (state, name, sex, year, births) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.Exec(r.State, r.Name, string(r.Sex), r.Year, r.Births); err != nil {
			return err
		}
	}
	if err := c.markStored(tx, DatasetState, len(records)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadState returns the cached state dataset.
func (c *Cache) LoadState() ([]models.StateNameYearRecord, error) {
	rows, err := c.db.Query(`SELECT state, name, sex, year, births FROM state_names ORDER BY state, year, sex, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.StateNameYearRecord{}
	for rows.Next() {
		var r models.StateNameYearRecord
		var sex string
		if err := rows.Scan(&r.State, &r.Name, &sex, &r.Year, &r.Births); err != nil {
			return nil, err
		}
		r.Sex = models.Sex(sex)
		records = append(records, r)
	}
	return records, rows.Err()
}
