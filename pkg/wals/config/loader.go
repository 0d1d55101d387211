package config

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/distance"
	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/ingest"
	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/region"
	"github.com/cognicore/wals/pkg/wals/snapshot"
	"github.com/cognicore/wals/pkg/wals/store"
	"github.com/cognicore/wals/pkg/wals/store/memstore"
	"github.com/cognicore/wals/pkg/wals/store/sqlite"
)

// Loader loads the dataset and constructs components from a Config.
type Loader struct {
	Config Config
	Warn   ingest.WarnFunc // receives CSV decoding warnings
}

// Components holds everything built from a configuration.
type Components struct {
	Dataset    *dataset.Dataset
	Classifier geo.Classifier
	Registry   *region.Registry
	Store      store.Store
	Scoring    distance.Scoring
	Workers    int

	// FromSnapshot is true when the dataset came from the snapshot file.
	FromSnapshot bool
}

// Load validates the configuration and builds every component. On error
// nothing is left open.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{
		Scoring: distance.ParseScoring(cfg.Engine.Scoring),
		Workers: cfg.Engine.Workers,
	}

	// Load dataset
	ds, fromSnap, err := l.loadDataset()
	if err != nil {
		return nil, err
	}
	comp.Dataset = ds
	comp.FromSnapshot = fromSnap

	// Build classifier
	comp.Classifier, err = geo.New(geo.Options{
		Strategy:   cfg.Classifier.Strategy,
		RasterPath: cfg.Classifier.Raster,
		CacheSize:  cfg.Classifier.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	// Build regions
	comp.Registry, err = BuildRegistry(cfg.Regions)
	if err != nil {
		return nil, err
	}

	// Open report store
	comp.Store, err = OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	return comp, nil
}

func (l *Loader) loadDataset() (*dataset.Dataset, bool, error) {
	if path := l.Config.Data.Snapshot; path != "" {
		ds, err := snapshot.Load(path)
		if err == nil {
			return ds, true, nil
		}
		if !errors.Is(err, internalerr.ErrMissingAsset) {
			return nil, false, fmt.Errorf("load snapshot: %w", err)
		}
	}

	ld := &ingest.Loader{Warn: l.Warn}
	ds, err := ld.LoadDir(l.Config.Data.Dir)
	if err != nil {
		return nil, false, fmt.Errorf("load dataset: %w", err)
	}
	return ds, false, nil
}

// BuildRegistry returns the built-in regions plus the configured extras.
// Extras may reference each other in any order.
func BuildRegistry(extra map[string][]string) (*region.Registry, error) {
	reg := region.Builtin()

	pending := make([]string, 0, len(extra))
	for id := range extra {
		pending = append(pending, id)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		var next []string
		var lastErr error
		for _, id := range pending {
			_, err := reg.DefineMixed(id, extra[id])
			if errors.Is(err, internalerr.ErrNotFound) {
				next = append(next, id)
				lastErr = err
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("define region: %w", err)
			}
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("define region: %w", lastErr)
		}
		pending = next
	}
	return reg, nil
}

// OpenStore opens the configured report store.
func OpenStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open report store: %w", err)
		}
		return st, nil
	default:
		return memstore.New(), nil
	}
}
