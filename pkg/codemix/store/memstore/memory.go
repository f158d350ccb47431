package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu         sync.RWMutex
	reports    map[string]store.Report
	utterances map[string][]store.UtteranceRow
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		reports:    make(map[string]store.Report),
		utterances: make(map[string][]store.UtteranceRow),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport inserts or replaces a report, keyed by ID.
func (s *Store) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report without id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = copyReport(r)
	return nil
}

// GetReport returns a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return store.Report{}, fmt.Errorf("report %q: %w", id, internalerr.ErrNotFound)
	}
	return copyReport(r), nil
}

// ListReports returns the newest reports first, optionally filtered by corpus.
func (s *Store) ListReports(ctx context.Context, corpus string, limit int) ([]store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if corpus != "" && r.Corpus != corpus {
			continue
		}
		out = append(out, copyReport(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveUtterances replaces the utterance rows of an existing report.
func (s *Store) SaveUtterances(ctx context.Context, reportID string, rows []store.UtteranceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[reportID]; !ok {
		return fmt.Errorf("report %q: %w", reportID, internalerr.ErrNotFound)
	}
	s.utterances[reportID] = append([]store.UtteranceRow(nil), rows...)
	return nil
}

// Utterances returns the rows of a report ordered by index.
func (s *Store) Utterances(ctx context.Context, reportID string) ([]store.UtteranceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.reports[reportID]; !ok {
		return nil, fmt.Errorf("report %q: %w", reportID, internalerr.ErrNotFound)
	}
	rows := append([]store.UtteranceRow(nil), s.utterances[reportID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })
	return rows, nil
}

func copyReport(r store.Report) store.Report {
	r.Stats.TagTotals = append([]cmi.TagTotal(nil), r.Stats.TagTotals...)
	if r.Perplexity != nil {
		pp := make(map[string]float64, len(r.Perplexity))
		for k, v := range r.Perplexity {
			pp[k] = v
		}
		r.Perplexity = pp
	}
	return r
}
