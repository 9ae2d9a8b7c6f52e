package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/fallback"
	"github.com/lilykang127/connect-ltv/internal/domain/search/query"
	"github.com/lilykang127/connect-ltv/internal/domain/search/rank"
)

// Config holds the connect-ltv configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Search     SearchConfig     `yaml:"search"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Keys guard the admin routes only.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
)

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // postgres, sqlite, redis, valkey (default: sqlite)
	DSN              string   `yaml:"dsn"`    // postgres
	Path             string   `yaml:"path"`   // sqlite
	Addrs            []string `yaml:"addrs"`  // redis, valkey
	Password         string   `yaml:"password"`
	Table            string   `yaml:"table"`
	KeyPrefix        string   `yaml:"key_prefix"`
	MaxOpenConns     int      `yaml:"max_open_conns"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query and paging settings.
type SearchConfig struct {
	DefaultLimit  int    `yaml:"default_limit"`
	MaxLimit      int    `yaml:"max_limit"`
	MinTermLength int    `yaml:"min_term_length"`
	OnEmptyQuery  string `yaml:"on_empty_query"` // return_none, return_all
	TimeoutMs     int    `yaml:"timeout_ms"`
}

// RankingConfig holds scoring settings.
type RankingConfig struct {
	Enabled         bool           `yaml:"enabled"`
	CandidateFactor int            `yaml:"candidate_factor"`
	Weights         map[string]int `yaml:"weights"` // overrides on top of the default table
}

// Enrichment providers.
const (
	ProviderPlaceholder = "placeholder"
	ProviderOpenAI      = "openai"
)

// EnrichmentConfig holds batch enrichment settings.
type EnrichmentConfig struct {
	Provider    string       `yaml:"provider"` // placeholder, openai (default: placeholder)
	BatchLimit  int          `yaml:"batch_limit"`
	Concurrency int          `yaml:"concurrency"`
	DelayMs     int          `yaml:"delay_ms"`
	OpenAI      OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat API.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/connectltv.db"
	}
	if c.Database.Table == "" {
		c.Database.Table = db.DefaultTable
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "connectltv:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 50
	}
	if c.Search.MinTermLength <= 0 {
		c.Search.MinTermLength = query.DefaultMinTermLength
	}
	if c.Search.OnEmptyQuery == "" {
		c.Search.OnEmptyQuery = string(fallback.ReturnNone)
	}
	if c.Search.TimeoutMs <= 0 {
		c.Search.TimeoutMs = 5000
	}
	if c.Ranking.CandidateFactor <= 0 {
		c.Ranking.CandidateFactor = 3
	}
	if c.Enrichment.Provider == "" {
		c.Enrichment.Provider = ProviderPlaceholder
	}
	if c.Enrichment.BatchLimit <= 0 {
		c.Enrichment.BatchLimit = 5
	}
	if c.Enrichment.Concurrency <= 0 {
		c.Enrichment.Concurrency = 1
	}
	if c.Enrichment.DelayMs <= 0 {
		c.Enrichment.DelayMs = 500
	}
	if c.Enrichment.OpenAI.Model == "" {
		c.Enrichment.OpenAI.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver %q", c.Database.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be one of postgres, sqlite, redis, valkey, got %q", c.Database.Driver)
	}

	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) must not exceed search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if !fallback.Policy(c.Search.OnEmptyQuery).IsValid() {
		return fmt.Errorf("search.on_empty_query must be \"return_none\" or \"return_all\", got %q",
			c.Search.OnEmptyQuery)
	}

	if err := c.Ranking.WeightTable().Validate(); err != nil {
		return fmt.Errorf("ranking.weights: %w", err)
	}

	switch c.Enrichment.Provider {
	case ProviderPlaceholder:
	case ProviderOpenAI:
		if c.Enrichment.OpenAI.APIKey == "" {
			return fmt.Errorf("enrichment.openai.api_key is required for provider %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("enrichment.provider must be \"placeholder\" or \"openai\", got %q", c.Enrichment.Provider)
	}
	return nil
}

// WeightTable returns the default weights with the configured overrides applied.
func (r RankingConfig) WeightTable() rank.Weights {
	overrides := make(map[profile.Field]int, len(r.Weights))
	for k, v := range r.Weights {
		overrides[profile.Field(k)] = v
	}
	return rank.Default().Merge(overrides)
}

// Delay returns the pause between enriched profiles.
func (e EnrichmentConfig) Delay() time.Duration {
	return time.Duration(e.DelayMs) * time.Millisecond
}

// Timeout returns the per-search retrieval deadline.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
