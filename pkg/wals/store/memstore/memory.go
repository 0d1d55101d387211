package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	reports map[string]store.Report
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{reports: make(map[string]store.Report)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport inserts or replaces a report by ID.
func (s *Store) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report without id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = copyReport(r)
	return nil
}

// GetReport returns a copy of the stored report.
func (s *Store) GetReport(ctx context.Context, id string) (store.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return store.Report{}, false, nil
	}
	return copyReport(r), true, nil
}

// ListReports returns reports of the given kind, newest first.
func (s *Store) ListReports(ctx context.Context, kind store.Kind, limit int) ([]store.Report, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Report
	for _, r := range s.reports {
		if kind == "" || r.Kind == kind {
			result = append(result, copyReport(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func copyReport(r store.Report) store.Report {
	r.Meta = maps.Clone(r.Meta)
	r.Rows = slices.Clone(r.Rows)
	return r
}
