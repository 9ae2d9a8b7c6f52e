package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/fallback"
	"github.com/lilykang127/connect-ltv/internal/domain/search/narration"
	"github.com/lilykang127/connect-ltv/internal/domain/search/query"
	"github.com/lilykang127/connect-ltv/internal/domain/search/rank"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	"github.com/lilykang127/connect-ltv/internal/logger"
	"github.com/lilykang127/connect-ltv/internal/metrics"
)

// Config holds search policy knobs.
type Config struct {
	DefaultLimit    int
	MaxLimit        int
	MinTermLength   int
	OnEmpty         fallback.Policy
	Ranking         bool // score every search, not only over-full candidate sets
	CandidateFactor int  // over-fetch multiplier so the limit cut happens after ranking
	Weights         rank.Weights
	Timeout         time.Duration // per-retrieval deadline; 0 disables
}

// DefaultConfig returns the standard search policy.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:    10,
		MaxLimit:        50,
		MinTermLength:   query.DefaultMinTermLength,
		OnEmpty:         fallback.ReturnNone,
		Ranking:         true,
		CandidateFactor: 3,
		Weights:         rank.Default(),
		Timeout:         5 * time.Second,
	}
}

// Service turns a free-text query into ranked, narrated results.
type Service struct {
	repo     Repository
	narrator narration.Narrator
	cfg      Config
}

// New creates a search service with the template narrator.
func New(repo Repository, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if cfg.CandidateFactor < 1 {
		cfg.CandidateFactor = 1
	}
	if cfg.Weights == nil {
		cfg.Weights = rank.Default()
	}
	if !cfg.OnEmpty.IsValid() {
		cfg.OnEmpty = fallback.ReturnNone
	}
	return &Service{repo: repo, narrator: narration.Template{}, cfg: cfg}
}

// WithNarrator swaps the relevance narrator.
func (s *Service) WithNarrator(n narration.Narrator) *Service {
	s.narrator = n
	return s
}

// Limit clamps a requested result count to [1, MaxLimit]; <= 0 selects the default.
func (s *Service) Limit(requested int) int {
	switch {
	case requested <= 0:
		return s.cfg.DefaultLimit
	case requested > s.cfg.MaxLimit:
		return s.cfg.MaxLimit
	}
	return requested
}

// Search analyzes the query, retrieves candidates, ranks and narrates them.
// A store failure is returned as *domain.RetrievalError, never as an empty list.
func (s *Service) Search(ctx context.Context, raw string, limit int) ([]result.SearchResult, error) {
	log := logger.FromContext(ctx)
	limit = s.Limit(limit)

	terms, err := query.Analyze(raw, s.cfg.MinTermLength)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyQuery) {
			return nil, fmt.Errorf("analyze query: %w", err)
		}
		if s.cfg.OnEmpty == fallback.ReturnNone {
			metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeEmptyQuery).Inc()
			log.Debug("empty query, returning no results")
			return []result.SearchResult{}, nil
		}
		terms = nil
	}

	fetch := limit
	if len(terms) > 0 {
		fetch = limit * s.cfg.CandidateFactor
	}

	candidates, err := s.retrieve(ctx, terms, fetch)
	if err != nil {
		// caller went away; the superseding search or the client owns the outcome
		if errors.Is(ctx.Err(), context.Canceled) {
			log.Debug("search canceled", zap.Strings("terms", terms))
			return nil, err
		}
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeRetrievalError).Inc()
		log.Warn("search retrieval failed", zap.Strings("terms", terms), zap.Error(err))
		return nil, err
	}
	metrics.SearchCandidates.Observe(float64(len(candidates)))

	if len(terms) > 0 && (s.cfg.Ranking || len(candidates) > limit) {
		candidates = rank.Rank(candidates, terms, s.cfg.Weights)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.Debug("search",
		zap.Strings("terms", terms),
		zap.Int("fetch", fetch),
		zap.Int("results", len(candidates)),
	)

	out := make([]result.SearchResult, len(candidates))
	for i := range candidates {
		out[i] = result.New(&candidates[i], s.narrator.Narrate(&candidates[i], raw))
	}

	if len(out) == 0 {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeNoResults).Inc()
	} else {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	}
	return out, nil
}

func (s *Service) retrieve(ctx context.Context, terms query.Terms, limit int) ([]profile.Profile, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	candidates, err := s.repo.Retrieve(ctx, terms, limit)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRetrievalDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		var re *domain.RetrievalError
		if !errors.As(err, &re) {
			err = domain.NewRetrievalError("retrieve", err)
		}
		return nil, err
	}
	return candidates, nil
}
