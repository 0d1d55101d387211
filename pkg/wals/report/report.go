// Package report turns engine results into store.Report values that can be
// persisted and listed later.
package report

import (
	"crypto/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/distance"
	"github.com/cognicore/wals/pkg/wals/store"
	"github.com/cognicore/wals/pkg/wals/typicality"
)

// NoMajority labels profile rows whose parameter has no typical answer.
const NoMajority = "no majority"

// Builder stamps reports with monotonic ULIDs. It is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (b *Builder) start(kind store.Kind, subject string, meta map[string]string) store.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	return store.Report{
		ID:        ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		Kind:      kind,
		Subject:   subject,
		CreatedAt: now.UTC(),
		Meta:      meta,
	}
}

// Distances records a ranking against a reference language.
func (b *Builder) Distances(ref *dataset.Language, ranked []distance.Ranked, scoring distance.Scoring) store.Report {
	r := b.start(store.KindDistance, ref.ID, map[string]string{
		"scoring":    scoring.String(),
		"candidates": strconv.Itoa(len(ranked)),
	})
	r.Rows = make([]store.Row, 0, len(ranked))
	for _, rk := range ranked {
		r.Rows = append(r.Rows, store.Row{
			Key:     rk.Language.ID,
			Label:   rk.Language.Name,
			Value:   rk.Score,
			Matches: rk.Matches,
			Total:   rk.Total,
		})
	}
	return r
}

// Profile records a region's typical answers, one row per parameter in
// parameter order. Rows without a majority carry the sample size only.
func (b *Builder) Profile(p *typicality.Profile) store.Report {
	r := b.start(store.KindProfile, p.Region.ID(), map[string]string{
		"parameters": strconv.Itoa(len(p.Entries)),
		"majorities": strconv.Itoa(p.Len()),
	})
	r.Rows = make([]store.Row, 0, len(p.Entries))
	for _, e := range p.Entries {
		row := store.Row{Key: e.Parameter.ID, Label: NoMajority, Total: e.SampleSize}
		if e.HasMajority {
			row.Label = ElementLabel(e)
			row.Matches = e.Count
			row.Value = float64(e.Count) / float64(e.SampleSize)
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// Typicality records every scored language of a region.
func (b *Builder) Typicality(p *typicality.Profile, scores []typicality.Score) store.Report {
	r := b.start(store.KindTypicality, p.Region.ID(), map[string]string{
		"majorities": strconv.Itoa(p.Len()),
	})
	r.Rows = make([]store.Row, 0, len(scores))
	for _, s := range scores {
		r.Rows = append(r.Rows, store.Row{
			Key:     s.Language.ID,
			Label:   s.Language.Name,
			Value:   s.Percent,
			Matches: s.Matches,
			Total:   s.Total,
		})
	}
	return r
}

// ElementLabel names the majority element of an entry, falling back to its
// primary key when the element is not in the dataset.
func ElementLabel(e typicality.Entry) string {
	if e.Element != nil {
		return e.Element.Name
	}
	return "#" + strconv.Itoa(e.ElementPK)
}
