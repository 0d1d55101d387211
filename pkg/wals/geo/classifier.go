package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// Classifier maps a coordinate to a Province.
// Implementations return Uninhabited for coordinates they cannot place and
// never fail at query time.
type Classifier interface {
	Classify(lat, lon float64) Province
}

// Strategy names accepted by New.
const (
	StrategyTree   = "tree"
	StrategyRaster = "raster"
)

// Options selects and configures a classifier.
type Options struct {
	Strategy   string // "tree" (default) or "raster"
	RasterPath string // required for "raster"
	CacheSize  int    // 0 disables caching
}

// New builds the classifier described by opts. A raster strategy whose
// image cannot be loaded is an error: there is no degraded fallback.
func New(opts Options) (Classifier, error) {
	var c Classifier
	switch strings.ToLower(strings.TrimSpace(opts.Strategy)) {
	case StrategyTree, "":
		c = TreeClassifier{}
	case StrategyRaster:
		if opts.RasterPath == "" {
			return nil, fmt.Errorf("raster classifier: no image path: %w", internalerr.ErrMissingAsset)
		}
		r, err := LoadRaster(opts.RasterPath)
		if err != nil {
			return nil, err
		}
		c = r
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q: %w", opts.Strategy, internalerr.ErrInvalidConfig)
	}

	if opts.CacheSize > 0 {
		return NewCached(c, opts.CacheSize)
	}
	return c, nil
}

// validCoordinate reports whether lat/lon lie on the globe.
func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
