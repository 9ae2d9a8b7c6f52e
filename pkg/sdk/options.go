package connectltv

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lilykang127/connect-ltv/internal/config"
	"github.com/lilykang127/connect-ltv/internal/domain/search/fallback"
)

// Option configures the Client.
type Option interface {
	apply(*config.Config)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*config.Config)

func (f optionFunc) apply(c *config.Config) { f(c) }

// clientOptions holds settings that live outside the service configuration.
type clientOptions struct {
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// sdkOption is an Option that also touches client-only settings.
type sdkOption struct {
	fn func(*clientOptions)
}

func (sdkOption) apply(*config.Config) {}

// WithSQLite opens a local SQLite file. Use ":memory:" for a private in-memory database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *config.Config) {
		c.Database.Driver = config.DriverSQLite
		c.Database.Path = path
	})
}

// WithPostgres connects to the hosted alumni table.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *config.Config) {
		c.Database.Driver = config.DriverPostgres
		c.Database.DSN = dsn
	})
}

// WithRedis connects to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *config.Config) {
		c.Database.Driver = config.DriverRedis
		c.Database.Addrs = []string{addr}
		c.Database.Password = password
	})
}

// WithValkey connects to a Valkey instance. Valkey shares the Redis driver.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *config.Config) {
		c.Database.Driver = config.DriverValkey
		c.Database.Addrs = []string{addr}
		c.Database.Password = password
	})
}

// WithTable sets the table name. Default: "LTV Alumni Database".
func WithTable(name string) Option {
	return optionFunc(func(c *config.Config) {
		c.Database.Table = name
	})
}

// WithLimits sets the default and maximum number of search results.
// Defaults: 10 and 50.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *config.Config) {
		c.Search.DefaultLimit = defaultLimit
		c.Search.MaxLimit = maxLimit
	})
}

// WithReturnAllOnEmpty makes a query with no usable terms return an unranked page
// of profiles instead of nothing.
func WithReturnAllOnEmpty() Option {
	return optionFunc(func(c *config.Config) {
		c.Search.OnEmptyQuery = string(fallback.ReturnAll)
	})
}

// WithSearchTimeout bounds each retrieval. Default: 5s.
func WithSearchTimeout(d time.Duration) Option {
	return optionFunc(func(c *config.Config) {
		c.Search.TimeoutMs = int(d / time.Millisecond)
	})
}

// WithRanking scores every search, not only candidate sets larger than the limit.
func WithRanking() Option {
	return optionFunc(func(c *config.Config) {
		c.Ranking.Enabled = true
	})
}

// WithWeights overrides per-field ranking weights, keyed by field name
// ("name", "position", "organization", ...).
func WithWeights(w map[string]int) Option {
	return optionFunc(func(c *config.Config) {
		c.Ranking.Weights = w
	})
}

// WithOpenAI fetches biographies from an OpenAI-compatible chat API.
// Without it, enrichment uses the offline placeholder.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *config.Config) {
		c.Enrichment.Provider = config.ProviderOpenAI
		c.Enrichment.OpenAI = config.OpenAIConfig{APIKey: apiKey, BaseURL: baseURL, Model: model}
	})
}

// WithEnrichmentPacing sets worker concurrency and the pause between profiles.
// Defaults: 1 worker, 500ms.
func WithEnrichmentPacing(concurrency int, delay time.Duration) Option {
	return optionFunc(func(c *config.Config) {
		c.Enrichment.Concurrency = concurrency
		c.Enrichment.DelayMs = int(delay / time.Millisecond)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return sdkOption{fn: func(o *clientOptions) { o.logger = l }}
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return sdkOption{fn: func(o *clientOptions) { o.metricsReg = reg }}
}
