package connectltv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lilykang127/connect-ltv/internal/app"
	"github.com/lilykang127/connect-ltv/internal/config"
	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/db/driver"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	enrichmentuc "github.com/lilykang127/connect-ltv/internal/usecase/enrichment"
	healthuc "github.com/lilykang127/connect-ltv/internal/usecase/health"
	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
	searchuc "github.com/lilykang127/connect-ltv/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string, limit int) ([]result.SearchResult, error)
}

type profileUseCase interface {
	Get(ctx context.Context, id int64) (profileuc.Detail, error)
}

type enrichmentUseCase interface {
	Run(ctx context.Context, limit int) (enrichmentuc.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the connect-ltv SDK entry point. A Client is a single search
// session: a Search call cancels the one still in flight and the older call
// returns ErrSuperseded.
type Client struct {
	app        *app.App
	searchSvc  searchUseCase
	profileSvc profileUseCase
	enrichSvc  enrichmentUseCase
	healthSvc  healthUseCase
	pinger     db.Pinger
	seeder     db.Seeder
	obs        *observer
}

// New creates a Client and opens the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var (
		cfg  config.Config
		copt clientOptions
	)
	for _, o := range opts {
		o.apply(&cfg)
		if so, ok := o.(sdkOption); ok {
			so.fn(&copt)
		}
	}

	if cfg.Database.Driver == "" {
		return nil, errors.New("connectltv: database required (use WithSQLite, WithPostgres or WithRedis)")
	}
	cfg.ApplyDefaults()
	if cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		return nil, fmt.Errorf("connectltv: default limit %d exceeds max limit %d",
			cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if err := cfg.Ranking.WeightTable().Validate(); err != nil {
		return nil, fmt.Errorf("connectltv: %w", err)
	}

	obs, err := newObserver(copt.logger, copt.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := driver.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connectltv: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("connectltv: database not ready: %w", err)
	}

	a, err := app.Wire(store, &cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("connectltv: %w", err)
	}
	return wireClient(a, obs), nil
}

func wireClient(a *app.App, obs *observer) *Client {
	c := &Client{
		app:        a,
		searchSvc:  searchuc.NewLatest(a.Search),
		profileSvc: a.Profiles,
		enrichSvc:  a.Enrichment,
		healthSvc:  a.Health,
		pinger:     a.Store,
		obs:        obs,
	}
	if s, err := a.Seeder(); err == nil {
		c.seeder = s
	}
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns up to limit profiles matching the free-text query, best first.
// limit <= 0 selects the default; larger values are capped at the maximum.
// A query with no usable terms returns no results unless WithReturnAllOnEmpty is set.
func (c *Client) Search(ctx context.Context, query string, limit int) (_ []Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res, err := c.searchSvc.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]Result, len(res))
	for i := range res {
		out[i] = resultFromDomain(&res[i])
	}
	return out, nil
}

// Profile returns a single profile with its biography, if one was fetched.
func (c *Client) Profile(ctx context.Context, id int64) (_ Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("profile", start, err) }()

	d, err := c.profileSvc.Get(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	return profileFromDetail(&d), nil
}

// Enrich fetches biographies for up to limit profiles that have a profile link
// and no biography yet. limit <= 0 selects the default of 5.
func (c *Client) Enrich(ctx context.Context, limit int) (_ EnrichmentReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("enrich", start, err) }()

	r, err := c.enrichSvc.Run(ctx, limit)
	report := EnrichmentReport{
		Message:   r.Message,
		Completed: r.Completed,
		Failed:    r.Failed,
		Total:     r.Total,
	}
	if err != nil {
		return report, fmt.Errorf("enrich: %w", err)
	}
	return report, nil
}

// Seed loads a CSV export of the alumni table and upserts its rows by id.
// Rows without an id are skipped. It returns the number of rows loaded.
func (c *Client) Seed(ctx context.Context, r io.Reader) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("seed", start, err) }()

	if c.seeder == nil {
		return 0, ErrSeedUnsupported
	}
	rows, err := db.ReadCSV(r)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	rows, _ = db.Identified(rows)
	if err := c.seeder.Upsert(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return len(rows), nil
}

// Examples returns sample queries for first-time users.
func (c *Client) Examples() []Example {
	src := searchuc.Examples()
	out := make([]Example, len(src))
	for i, e := range src {
		out[i] = Example{Category: e.Category, Query: e.Query}
	}
	return out
}
