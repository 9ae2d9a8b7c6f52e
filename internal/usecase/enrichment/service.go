package enrichment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/logger"
	"github.com/lilykang127/connect-ltv/internal/metrics"
)

// Report messages.
const (
	MessageNothingPending = "No profiles left to enrich"
	MessageCompleted      = "Enrichment completed"
	MessageCanceled       = "Enrichment canceled"
)

// MaxBatchLimit caps a single run.
const MaxBatchLimit = 100

// Config controls batch size and pacing.
type Config struct {
	BatchLimit  int
	Concurrency int
	Delay       time.Duration // pause between profile submissions
}

// DefaultConfig returns the standard enrichment settings.
func DefaultConfig() Config {
	return Config{BatchLimit: 5, Concurrency: 1, Delay: 500 * time.Millisecond}
}

// Report summarizes one enrichment run.
type Report struct {
	Message   string
	Completed int
	Failed    int
	Total     int
}

// Service fills in biography text for profiles that have a profile link but no biography.
type Service struct {
	repo Repository
	bio  Biographer
	pool *ants.Pool
	cfg  Config
}

// New creates an enrichment service backed by a worker pool of cfg.Concurrency.
// Call Release when done.
func New(repo Repository, bio Biographer, cfg Config) (*Service, error) {
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = DefaultConfig().BatchLimit
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create enrichment pool: %w", err)
	}
	return &Service{repo: repo, bio: bio, pool: pool, cfg: cfg}, nil
}

// Release frees the worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// Limit clamps a requested batch size; <= 0 selects the configured default.
func (s *Service) Limit(requested int) int {
	switch {
	case requested <= 0:
		return s.cfg.BatchLimit
	case requested > MaxBatchLimit:
		return MaxBatchLimit
	}
	return requested
}

// Run enriches up to limit pending profiles. A failure on one profile is logged
// and counted without aborting the batch. Only listing the pending set, or
// cancellation, fails the run.
func (s *Service) Run(ctx context.Context, limit int) (Report, error) {
	ctx = logger.With(ctx, zap.String("provider", s.bio.Provider()))
	log := logger.FromContext(ctx)
	metrics.EnrichmentRunsTotal.Inc()

	pending, err := s.repo.PendingEnrichment(ctx, s.Limit(limit))
	if err != nil {
		return Report{}, fmt.Errorf("list pending profiles: %w", err)
	}
	if len(pending) == 0 {
		return Report{Message: MessageNothingPending}, nil
	}

	var (
		wg        sync.WaitGroup
		completed atomic.Int64
		failed    atomic.Int64
	)

	submitted := 0
	for i := range pending {
		if i > 0 && !s.pause(ctx) {
			break
		}
		p := pending[i]
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			if s.enrich(ctx, &p) {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			log.Error("enrichment submit failed", zap.Int64("profile_id", p.ID()), zap.Error(submitErr))
		}
		submitted++
	}
	wg.Wait()

	report := Report{
		Message:   MessageCompleted,
		Completed: int(completed.Load()),
		Failed:    int(failed.Load()),
		Total:     len(pending),
	}
	log.Info("enrichment run finished",
		zap.Int("completed", report.Completed),
		zap.Int("failed", report.Failed),
		zap.Int("total", report.Total),
		zap.Int("submitted", submitted),
	)

	if err := ctx.Err(); err != nil {
		report.Message = MessageCanceled
		return report, fmt.Errorf("enrichment run: %w", err)
	}
	return report, nil
}

func (s *Service) enrich(ctx context.Context, p *profile.Profile) bool {
	log := logger.FromContext(ctx).With(zap.Int64("profile_id", p.ID()))

	start := time.Now()
	text, err := s.bio.Biography(ctx, p)
	metrics.EnrichmentProviderDuration.WithLabelValues(s.bio.Provider()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EnrichmentProfilesTotal.WithLabelValues("failed").Inc()
		log.Warn("biography fetch failed", zap.Error(err))
		return false
	}

	if err := s.repo.SaveEnrichment(ctx, p.ID(), text); err != nil {
		metrics.EnrichmentProfilesTotal.WithLabelValues("failed").Inc()
		log.Warn("biography save failed", zap.Error(err))
		return false
	}

	metrics.EnrichmentProfilesTotal.WithLabelValues("completed").Inc()
	log.Debug("profile enriched", zap.Int("bytes", len(text)))
	return true
}

// pause waits for the configured delay. Returns false if ctx ends first.
func (s *Service) pause(ctx context.Context) bool {
	if s.cfg.Delay == 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.cfg.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
