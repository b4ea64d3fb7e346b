package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Summary  SummaryConfig
	Peers    PeersConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig holds the defaults applied to new and partially filled snapshots.
type PlannerConfig struct {
	Years               int
	DefaultTotalCredits int
	DefaultTargetGPA    float64
	MaxTranscriptBytes  int
}

// SummaryConfig governs caching of dashboard summaries.
type SummaryConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// PeerDatasetConfig describes one published cohort sheet.
type PeerDatasetConfig struct {
	ID   string
	Name string
	URL  string
}

// PeersConfig controls the peer ranking datasets and their refresh worker.
type PeersConfig struct {
	Datasets      []PeerDatasetConfig
	CacheTTL      time.Duration
	FetchTimeout  time.Duration
	SyncOnStart   bool
	SyncWorkers   int
	SyncRetries   int
	SyncRetryWait time.Duration
}

// ExportsConfig configures transcript rendering and signed downloads.
type ExportsConfig struct {
	Enabled          bool
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	CleanupInterval  time.Duration
	// CSVByteOrderMark prefixes CSV downloads with a UTF-8 BOM so spreadsheet apps keep
	// Vietnamese diacritics.
	CSVByteOrderMark bool
}

// DefaultPeerDatasets are the cohort sheets published by the student union.
var DefaultPeerDatasets = []PeerDatasetConfig{
	{
		ID:   "hk2_2425",
		Name: "HK2 2024-2025",
		URL:  "https://docs.google.com/spreadsheets/d/e/2PACX-1vTb91w3JSJm6yvm8gYd6FbvYRK_taabZhEoxlJHBW1Dyt5EIyBxf3ZQZdwdIqc0JQ/pub?output=tsv",
	},
	{
		ID:   "hk1_2425",
		Name: "HK1 2024-2025",
		URL:  "https://docs.google.com/spreadsheets/d/e/2PACX-1vS-EZ6FLjTI5HpIoeRSguBwVMxI3PYRA3TuHgnKYMJmvvX35VgmFjTYbXXfrDNpjiR45tf7qE0iFZo7/pub?output=tsv",
	},
	{
		ID:   "hk2_2324",
		Name: "HK2 2023-2024",
		URL:  "https://docs.google.com/spreadsheets/d/e/2PACX-1vQTzwrflTUq35OOyF68BG3IVzsRuy4siAGqCw2HvRNQeElRlCEUR0iA_JRYQpC79w/pub?output=tsv",
	},
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("ENABLE_DATABASE"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		Years:               v.GetInt("PLANNER_YEARS"),
		DefaultTotalCredits: v.GetInt("PLANNER_TOTAL_CREDITS"),
		DefaultTargetGPA:    v.GetFloat64("PLANNER_TARGET_GPA"),
		MaxTranscriptBytes:  v.GetInt("IMPORT_MAX_TRANSCRIPT_BYTES"),
	}

	cfg.Summary = SummaryConfig{
		CacheEnabled: v.GetBool("ENABLE_SUMMARY_CACHE"),
		CacheTTL:     parseDuration(v.GetString("SUMMARY_CACHE_TTL"), 10*time.Minute),
	}

	datasets := parseDatasets(v.GetString("PEER_DATASETS"))
	if len(datasets) == 0 {
		datasets = append([]PeerDatasetConfig(nil), DefaultPeerDatasets...)
	}
	cfg.Peers = PeersConfig{
		Datasets:      datasets,
		CacheTTL:      parseDuration(v.GetString("PEER_CACHE_TTL"), 6*time.Hour),
		FetchTimeout:  parseDuration(v.GetString("PEER_FETCH_TIMEOUT"), 10*time.Second),
		SyncOnStart:   v.GetBool("ENABLE_PEER_SYNC"),
		SyncWorkers:   v.GetInt("PEER_SYNC_WORKERS"),
		SyncRetries:   v.GetInt("PEER_SYNC_RETRIES"),
		SyncRetryWait: parseDuration(v.GetString("PEER_SYNC_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled:          v.GetBool("ENABLE_EXPORTS"),
		StorageDir:       v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval:  parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), 30*time.Minute),
		CSVByteOrderMark: v.GetBool("EXPORTS_CSV_BOM"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ENABLE_DATABASE", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hub_grade_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_YEARS", 4)
	v.SetDefault("PLANNER_TOTAL_CREDITS", 125)
	v.SetDefault("PLANNER_TARGET_GPA", 3.2)
	v.SetDefault("IMPORT_MAX_TRANSCRIPT_BYTES", 2*1024*1024)

	v.SetDefault("ENABLE_SUMMARY_CACHE", false)
	v.SetDefault("SUMMARY_CACHE_TTL", "10m")

	v.SetDefault("PEER_DATASETS", "")
	v.SetDefault("PEER_CACHE_TTL", "6h")
	v.SetDefault("PEER_FETCH_TIMEOUT", "10s")
	v.SetDefault("ENABLE_PEER_SYNC", false)
	v.SetDefault("PEER_SYNC_WORKERS", 1)
	v.SetDefault("PEER_SYNC_RETRIES", 3)
	v.SetDefault("PEER_SYNC_RETRY_DELAY", "5s")

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "30m")
	v.SetDefault("EXPORTS_CSV_BOM", true)
}

// parseDatasets reads "id|name|url" entries separated by semicolons.
func parseDatasets(raw string) []PeerDatasetConfig {
	var datasets []PeerDatasetConfig
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.SplitN(entry, "|", 3)
		if len(parts) != 3 {
			continue
		}
		ds := PeerDatasetConfig{
			ID:   strings.TrimSpace(parts[0]),
			Name: strings.TrimSpace(parts[1]),
			URL:  strings.TrimSpace(parts[2]),
		}
		if ds.ID == "" || ds.URL == "" {
			continue
		}
		datasets = append(datasets, ds)
	}
	return datasets
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
