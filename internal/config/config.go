package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends for the persistent search history
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel  string
	LogFormat string
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080

	Adzuna struct {
		AppID   string
		AppKey  string
		Country string
	}
	JSearch struct {
		APIKey string
		Host   string
	}
	FranceTravail struct {
		ClientID     string
		ClientSecret string
	}

	AdapterTimeout time.Duration
	AdapterRPS     float64

	QueryCacheTTL     time.Duration
	SearchCacheTTL    time.Duration
	SearchHistorySize int
	CacheBackend      string
	SQLitePath        string
	RedisURL          string

	// Neo4j is optional; an empty URI disables the offer archive
	Neo4j struct {
		URI      string
		Username string
		Password string
	}
	SheetsCredentialsPath string
	RefreshSchedule       string
}

// ArchiveEnabled reports whether Neo4j settings are present
func (c Config) ArchiveEnabled() bool {
	return c.Neo4j.URI != ""
}

// Load populates config from environment variables. envFiles are read first
// when they exist; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Host:              "0.0.0.0",
		Port:              "8080",
		AdapterTimeout:    15 * time.Second,
		AdapterRPS:        5,
		QueryCacheTTL:     10 * time.Minute,
		SearchCacheTTL:    24 * time.Hour,
		SearchHistorySize: 10,
		CacheBackend:      BackendSQLite,
		SQLitePath:        "offerscout.db",
	}

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.Host, "MCP_HOST")
	setString(&cfg.Port, "PORT")

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.Adzuna.Country = "fr"
	setString(&cfg.Adzuna.Country, "ADZUNA_COUNTRY")

	cfg.JSearch.APIKey = os.Getenv("JSEARCH_API_KEY")
	cfg.JSearch.Host = "jsearch.p.rapidapi.com"
	setString(&cfg.JSearch.Host, "JSEARCH_HOST")

	cfg.FranceTravail.ClientID = os.Getenv("FRANCE_TRAVAIL_CLIENT_ID")
	cfg.FranceTravail.ClientSecret = os.Getenv("FRANCE_TRAVAIL_CLIENT_SECRET")

	setString(&cfg.CacheBackend, "CACHE_BACKEND")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.SheetsCredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	cfg.RefreshSchedule = os.Getenv("REFRESH_SCHEDULE")

	var invalid []string
	setDuration(&cfg.AdapterTimeout, "ADAPTER_TIMEOUT", &invalid)
	setDuration(&cfg.QueryCacheTTL, "QUERY_CACHE_TTL", &invalid)
	setDuration(&cfg.SearchCacheTTL, "SEARCH_CACHE_TTL", &invalid)
	setInt(&cfg.SearchHistorySize, "SEARCH_HISTORY_SIZE", &invalid)
	setFloat(&cfg.AdapterRPS, "ADAPTER_RPS", &invalid)

	switch cfg.CacheBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			invalid = append(invalid, "REDIS_URL")
		}
	default:
		invalid = append(invalid, "CACHE_BACKEND")
	}

	if cfg.ArchiveEnabled() {
		if cfg.Neo4j.Username == "" {
			invalid = append(invalid, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			invalid = append(invalid, "NEO4J_PASSWORD")
		}
	}

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid or missing environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string, invalid *[]string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*invalid = append(*invalid, key)
		return
	}
	*dst = d
}

func setInt(dst *int, key string, invalid *[]string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*invalid = append(*invalid, key)
		return
	}
	*dst = n
}

func setFloat(dst *float64, key string, invalid *[]string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		*invalid = append(*invalid, key)
		return
	}
	*dst = f
}
