// Package app wires the record store, repositories and use cases from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/config"
	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/db/driver"
	"github.com/lilykang127/connect-ltv/internal/domain/search/fallback"
	profilerepo "github.com/lilykang127/connect-ltv/internal/repository/profile"
	openaiBio "github.com/lilykang127/connect-ltv/internal/transport/openai"
	enrichmentuc "github.com/lilykang127/connect-ltv/internal/usecase/enrichment"
	healthuc "github.com/lilykang127/connect-ltv/internal/usecase/health"
	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
	searchuc "github.com/lilykang127/connect-ltv/internal/usecase/search"
)

// App holds the wired services. Close releases the store and worker pool.
type App struct {
	Store      db.ProfileStore
	Search     *searchuc.Service
	Profiles   *profileuc.Service
	Enrichment *enrichmentuc.Service
	Health     *healthuc.Service
}

// New opens the configured store, waits for it and wires the use cases.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := driver.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to record store",
		zap.String("driver", cfg.Database.Driver),
		zap.String("table", cfg.Database.Table),
	)

	a, err := Wire(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds the use cases on top of an open store.
func Wire(store db.ProfileStore, cfg *config.Config) (*App, error) {
	repo := profilerepo.New(store)

	searchSvc := searchuc.New(repo, SearchConfig(cfg))

	bio, provider := biographer(&cfg.Enrichment)
	enrichSvc, err := enrichmentuc.New(repo, bio, enrichmentuc.Config{
		BatchLimit:  cfg.Enrichment.BatchLimit,
		Concurrency: cfg.Enrichment.Concurrency,
		Delay:       cfg.Enrichment.Delay(),
	})
	if err != nil {
		return nil, err
	}

	// Pass a nil interface, not a typed nil pointer, when no remote provider is configured.
	var checker healthuc.ProviderChecker
	if provider != nil {
		checker = provider
	}

	return &App{
		Store:      store,
		Search:     searchSvc,
		Profiles:   profileuc.New(repo),
		Enrichment: enrichSvc,
		Health:     healthuc.New(store, checker),
	}, nil
}

// SearchConfig maps the search and ranking sections onto the search policy.
func SearchConfig(cfg *config.Config) searchuc.Config {
	return searchuc.Config{
		DefaultLimit:    cfg.Search.DefaultLimit,
		MaxLimit:        cfg.Search.MaxLimit,
		MinTermLength:   cfg.Search.MinTermLength,
		OnEmpty:         fallback.Policy(cfg.Search.OnEmptyQuery),
		Ranking:         cfg.Ranking.Enabled,
		CandidateFactor: cfg.Ranking.CandidateFactor,
		Weights:         cfg.Ranking.WeightTable(),
		Timeout:         cfg.Search.Timeout(),
	}
}

// Seeder returns the store's bulk loader, if the driver has one.
func (a *App) Seeder() (db.Seeder, error) {
	s, ok := a.Store.(db.Seeder)
	if !ok {
		return nil, errors.New("the configured database driver does not support seeding")
	}
	return s, nil
}

// Close releases all resources.
func (a *App) Close() {
	a.Enrichment.Release()
	a.Store.Close()
}

func biographer(cfg *config.EnrichmentConfig) (enrichmentuc.Biographer, *openaiBio.Biographer) {
	if cfg.Provider != config.ProviderOpenAI {
		return enrichmentuc.Placeholder{}, nil
	}
	b := openaiBio.NewBiographer(&openaiBio.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	return b, b
}
