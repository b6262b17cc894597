package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DbDsn      string
	TgToken    string
	DataDir    string
	CutoffYear int
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration, loaded from .env plus the
// environment on first use.
func GetConfig() *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil {
			log.Println("no .env file, using environment only")
		}

		config = &Config{
			DbDsn:      os.Getenv("DB_DSN"),
			TgToken:    os.Getenv("TG_TOKEN"),
			DataDir:    os.Getenv("DATA_DIR"),
			CutoffYear: 1990,
		}
		if config.DataDir == "" {
			config.DataDir = "data"
		}
		if v := os.Getenv("CUTOFF_YEAR"); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil {
				log.Fatal("CUTOFF_YEAR must be an integer: ", err)
			}
			config.CutoffYear = year
		}
	})
	return config
}
