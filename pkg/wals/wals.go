// Package wals ties the dataset, geo classifier, region registry and the two
// analysis engines together behind one Atlas value.
package wals

import (
	"context"
	"fmt"

	"github.com/cognicore/wals/pkg/wals/config"
	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/distance"
	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/region"
	"github.com/cognicore/wals/pkg/wals/report"
	"github.com/cognicore/wals/pkg/wals/store"
	"github.com/cognicore/wals/pkg/wals/store/memstore"
	"github.com/cognicore/wals/pkg/wals/typicality"
)

// Atlas is the main analysis facade
type Atlas struct {
	ds       *dataset.Dataset
	registry *region.Registry
	pop      *region.Population
	dist     *distance.Engine
	typ      *typicality.Engine
	store    store.Store
	reports  *report.Builder
	scoring  distance.Scoring
}

// Options configures an Atlas instance
type Options struct {
	Dataset    *dataset.Dataset
	Classifier geo.Classifier   // defaults to geo.TreeClassifier
	Registry   *region.Registry // defaults to region.Builtin()
	Store      store.Store      // defaults to an in-memory store
	Scoring    distance.Scoring
	Workers    int // 0 uses GOMAXPROCS
}

// New creates an Atlas with the given dependencies
func New(opts Options) *Atlas {
	if opts.Classifier == nil {
		opts.Classifier = geo.TreeClassifier{}
	}
	if opts.Registry == nil {
		opts.Registry = region.Builtin()
	}
	if opts.Store == nil {
		opts.Store = memstore.New()
	}

	pop := region.NewPopulation(opts.Dataset, opts.Classifier)
	return &Atlas{
		ds:       opts.Dataset,
		registry: opts.Registry,
		pop:      pop,
		dist:     distance.NewEngine(opts.Dataset, distance.WithScoring(opts.Scoring), distance.WithWorkers(opts.Workers)),
		typ:      typicality.NewEngine(pop),
		store:    opts.Store,
		reports:  report.New(),
		scoring:  opts.Scoring,
	}
}

// FromComponents builds an Atlas from loaded configuration.
func FromComponents(c *config.Components) *Atlas {
	return New(Options{
		Dataset:    c.Dataset,
		Classifier: c.Classifier,
		Registry:   c.Registry,
		Store:      c.Store,
		Scoring:    c.Scoring,
		Workers:    c.Workers,
	})
}

// Close cleanly shuts down the Atlas instance
func (a *Atlas) Close() error {
	return a.store.Close()
}

// Dataset returns the loaded dataset.
func (a *Atlas) Dataset() *dataset.Dataset { return a.ds }

// Registry returns the region registry.
func (a *Atlas) Registry() *region.Registry { return a.registry }

func (a *Atlas) Population() *region.Population { return a.pop }

func (a *Atlas) Store() store.Store { return a.store }

func (a *Atlas) Scoring() distance.Scoring { return a.scoring }

// Language finds a language by id, then by accent-insensitive name.
func (a *Atlas) Language(query string) (*dataset.Language, bool) {
	return a.ds.FindLanguage(query)
}

// Region looks a region up by id.
func (a *Atlas) Region(id string) (*region.Region, bool) {
	return a.registry.FromID(id)
}

// ResolveLanguage returns the matching language or, failing that, the first
// language loaded. fellBack reports whether the fallback was used; the
// language is nil only for an empty dataset.
func (a *Atlas) ResolveLanguage(query string) (l *dataset.Language, fellBack bool) {
	if l, ok := a.Language(query); ok {
		return l, false
	}
	if langs := a.ds.Languages(); len(langs) > 0 {
		return langs[0], true
	}
	return nil, true
}

// ResolveRegion returns the named region or EARTH.
func (a *Atlas) ResolveRegion(id string) (r *region.Region, fellBack bool) {
	if r, ok := a.registry.FromID(id); ok {
		return r, false
	}
	r, _ = a.registry.FromID(region.Earth)
	return r, true
}

// ProvinceOf classifies a language by its coordinates.
func (a *Atlas) ProvinceOf(l *dataset.Language) geo.Province {
	return a.pop.ProvinceOf(l)
}

// Distance returns the similarity of two languages in [0, 1].
func (a *Atlas) Distance(x, y *dataset.Language) float64 {
	return a.dist.Distance(x, y)
}

// RankResult is a saved distance ranking.
type RankResult struct {
	Ranked []distance.Ranked
	Report store.Report
}

// Rank scores every language of r against ref, sorts them by descending
// similarity and saves the ranking as a report.
func (a *Atlas) Rank(ctx context.Context, ref *dataset.Language, r *region.Region, progress distance.ProgressFunc) (*RankResult, error) {
	ranked, err := a.dist.Rank(ctx, ref, a.pop.Collect(r), progress)
	if err != nil {
		return nil, err
	}
	rep := a.reports.Distances(ref, ranked, a.scoring)
	rep.Meta["region"] = r.ID()
	if err := a.store.SaveReport(ctx, rep); err != nil {
		return nil, fmt.Errorf("save distance report: %w", err)
	}
	return &RankResult{Ranked: ranked, Report: rep}, nil
}

// ProfileResult is a saved typical profile.
type ProfileResult struct {
	Profile *typicality.Profile
	Report  store.Report
}

// Sprachbund computes the typical answer of every parameter in r and saves it.
func (a *Atlas) Sprachbund(ctx context.Context, r *region.Region) (*ProfileResult, error) {
	p := a.typ.TypicalProfile(r)
	rep := a.reports.Profile(p)
	if err := a.store.SaveReport(ctx, rep); err != nil {
		return nil, fmt.Errorf("save profile report: %w", err)
	}
	return &ProfileResult{Profile: p, Report: rep}, nil
}

// TypicalityResult is a saved set of conformity scores.
type TypicalityResult struct {
	Profile *typicality.Profile
	Scores  []typicality.Score
	Report  store.Report
}

// Typicality scores every language of r against r's typical profile and
// saves the scores, highest first.
func (a *Atlas) Typicality(ctx context.Context, r *region.Region) (*TypicalityResult, error) {
	p := a.typ.TypicalProfile(r)
	scores := a.typ.ScoreRegion(p)
	rep := a.reports.Typicality(p, scores)
	if err := a.store.SaveReport(ctx, rep); err != nil {
		return nil, fmt.Errorf("save typicality report: %w", err)
	}
	return &TypicalityResult{Profile: p, Scores: scores, Report: rep}, nil
}

// RegionSize pairs a region with its number of languages.
type RegionSize struct {
	Region    *region.Region
	Languages int
}

// RegionSizes counts the languages of every region in registration order.
func (a *Atlas) RegionSizes() []RegionSize {
	all := a.registry.All()
	out := make([]RegionSize, 0, len(all))
	for _, r := range all {
		out = append(out, RegionSize{Region: r, Languages: a.pop.Count(r)})
	}
	return out
}

// Reports lists saved reports, newest first.
func (a *Atlas) Reports(ctx context.Context, kind store.Kind, limit int) ([]store.Report, error) {
	return a.store.ListReports(ctx, kind, limit)
}

// Report loads a saved report.
func (a *Atlas) Report(ctx context.Context, id string) (store.Report, bool, error) {
	return a.store.GetReport(ctx, id)
}
