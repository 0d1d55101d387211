package distance

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/stats"
)

// Scoring selects how match counts become a similarity score.
type Scoring int

const (
	// Wilson scores a comparison with the 95% Wilson lower bound of the
	// match ratio, so comparisons backed by few shared parameters score low.
	Wilson Scoring = iota
	// RawRatio scores with matches/total.
	//
	// Deprecated: kept for comparison with older reports only.
	RawRatio
)

func (s Scoring) String() string {
	switch s {
	case Wilson:
		return "wilson"
	case RawRatio:
		return "ratio"
	default:
		return "unknown"
	}
}

// ParseScoring maps a config value to a Scoring. Unknown names yield Wilson.
func ParseScoring(name string) Scoring {
	if strings.EqualFold(strings.TrimSpace(name), "ratio") {
		return RawRatio
	}
	return Wilson
}

// Comparison is the evidence behind one distance.
type Comparison struct {
	Matches int     // shared parameters with the same domain element
	Total   int     // shared parameters
	Score   float64 // in [0, 1]
}

// Engine computes typological similarity between languages of a dataset.
// It only reads the dataset, so one Engine may serve concurrent callers.
type Engine struct {
	ds      *dataset.Dataset
	scoring Scoring
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScoring overrides the default Wilson scoring.
func WithScoring(s Scoring) Option {
	return func(e *Engine) { e.scoring = s }
}

// WithWorkers bounds the parallelism of Rank. Values below 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine creates an engine over ds.
func NewEngine(ds *dataset.Dataset, opts ...Option) *Engine {
	e := &Engine{ds: ds, scoring: Wilson}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Compare counts the parameters both languages answer and how many of those
// answers agree. A language compared with itself scores 1 when it has any
// recorded value; otherwise no overlap scores 0.
func (e *Engine) Compare(a, b *dataset.Language) Comparison {
	va := e.ds.Answers(a.ID)
	vb := e.ds.Answers(b.ID)

	// Iterate the smaller side; the counts are the same either way.
	small, large := va, vb
	if len(vb) < len(va) {
		small, large = vb, va
	}

	var c Comparison
	for param, v := range small {
		other, ok := large[param]
		if !ok {
			continue
		}
		c.Total++
		if v.DomainElementPK == other.DomainElementPK {
			c.Matches++
		}
	}

	switch {
	case c.Total == 0:
		c.Score = 0
	case a.ID == b.ID:
		c.Score = 1
	case e.scoring == RawRatio:
		c.Score = stats.Ratio(c.Matches, c.Total)
	default:
		c.Score = stats.Wilson(c.Matches, c.Total)
	}
	return c
}

// Distance returns the similarity score of a and b in [0, 1].
func (e *Engine) Distance(a, b *dataset.Language) float64 {
	return e.Compare(a, b).Score
}

// Ranked is one candidate's standing against a reference language.
type Ranked struct {
	Language *dataset.Language
	Comparison
}

// ProgressFunc is called after each candidate is scored. It may be called
// from several goroutines at once.
type ProgressFunc func(done, total int)

// Rank scores every candidate against ref and returns them sorted by
// descending score; ties keep candidate order. Candidates are scored in
// parallel since every comparison only reads shared state.
func (e *Engine) Rank(ctx context.Context, ref *dataset.Language, candidates []*dataset.Language, progress ProgressFunc) ([]Ranked, error) {
	out := make([]Ranked, len(candidates))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, cand := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Ranked{Language: cand, Comparison: e.Compare(ref, cand)}
			n := done.Add(1)
			if progress != nil {
				progress(int(n), len(candidates))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
