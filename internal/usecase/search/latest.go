package search

import (
	"context"
	"sync"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	"github.com/lilykang127/connect-ltv/internal/metrics"
)

// Latest applies last-request-wins to a Searcher: starting a search cancels the
// one still in flight, and a response that finishes after a newer search began
// is reported as domain.ErrSuperseded instead of being returned.
type Latest struct {
	next Searcher

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

var _ Searcher = (*Latest)(nil)

// NewLatest wraps a searcher.
func NewLatest(next Searcher) *Latest {
	return &Latest{next: next}
}

// Search runs the query, superseding any earlier call still running.
func (l *Latest) Search(ctx context.Context, query string, limit int) ([]result.SearchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	mine := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	res, err := l.next.Search(ctx, query, limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq != mine {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeSuperseded).Inc()
		return nil, domain.ErrSuperseded
	}
	l.cancel = nil
	return res, err
}
