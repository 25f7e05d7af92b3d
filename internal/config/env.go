package config

import (
	"os"
	"strings"
)

// Get returns the environment value for key or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Service settings read from the environment.
type Env struct {
	Port            string
	LogLevel        string
	DataDir         string
	ScenarioPath    string
	ReferenceSource string // csv or db
	DBDriver        string // sqlite or pgx, empty disables SQL storage
	DatabaseURL     string
	DBPath          string
}

func LoadEnv() Env {
	return Env{
		Port:            Get("PORT", "8080"),
		LogLevel:        Get("LOG_LEVEL", "info"),
		DataDir:         Get("DATA_DIR", "data"),
		ScenarioPath:    Get("SCENARIO_PATH", ""),
		ReferenceSource: strings.ToLower(Get("REFERENCE_SOURCE", "csv")),
		DBDriver:        strings.ToLower(Get("DB_DRIVER", "")),
		DatabaseURL:     Get("DATABASE_URL", ""),
		DBPath:          Get("DB_PATH", "data/fleet.db"),
	}
}

// DSN picks DATABASE_URL for Postgres and DB_PATH for SQLite.
func (e Env) DSN() string {
	if e.DBDriver == "pgx" {
		return e.DatabaseURL
	}
	return e.DBPath
}
