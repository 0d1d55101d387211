package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/wals/pkg/wals/distance"
	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/ingest"
	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/region"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the YAML configuration of the atlas tools.
type Config struct {
	Data       DataConfig          `yaml:"data"`
	Classifier ClassifierConfig    `yaml:"classifier"`
	Engine     EngineConfig        `yaml:"engine"`
	Store      StoreConfig         `yaml:"store"`
	Defaults   DefaultsConfig      `yaml:"defaults"`
	Regions    map[string][]string `yaml:"regions"` // extra regions: id -> region ids or province names
}

// DataConfig locates the WALS exports.
type DataConfig struct {
	Dir      string `yaml:"dir"`
	Snapshot string `yaml:"snapshot"` // preferred over CSV when the file exists
}

// ClassifierConfig selects the geo classifier.
type ClassifierConfig struct {
	Strategy  string `yaml:"strategy"` // tree | raster
	Raster    string `yaml:"raster"`
	CacheSize int    `yaml:"cache_size"`
}

// EngineConfig tunes the distance engine.
type EngineConfig struct {
	Workers int    `yaml:"workers"` // 0 uses GOMAXPROCS
	Scoring string `yaml:"scoring"` // wilson | ratio
}

// StoreConfig selects where reports are kept.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path"`
}

// DefaultsConfig holds the fallbacks used when a command is given no subject.
type DefaultsConfig struct {
	Language string `yaml:"language"`
	Region   string `yaml:"region"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Data:       DataConfig{Dir: ingest.DefaultDir},
		Classifier: ClassifierConfig{Strategy: geo.StrategyTree, CacheSize: 4096},
		Engine:     EngineConfig{Scoring: distance.Wilson.String()},
		Store:      StoreConfig{Driver: DriverMemory},
		Defaults:   DefaultsConfig{Language: "eng", Region: region.Earth},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", p, err)
	}
	return nil
}

// Environment overrides.
const (
	EnvDataDir    = "WALS_DATA_DIR"
	EnvClassifier = "WALS_CLASSIFIER"
	EnvRaster     = "WALS_RASTER"
	EnvDB         = "WALS_DB"
	EnvWorkers    = "WALS_WORKERS"
)

// ApplyEnv overrides fields from the environment. Setting WALS_DB switches
// the store to sqlite at that path.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := getenv(EnvClassifier); v != "" {
		c.Classifier.Strategy = v
	}
	if v := getenv(EnvRaster); v != "" {
		c.Classifier.Raster = v
	}
	if v := getenv(EnvDB); v != "" {
		c.Store.Driver = DriverSQLite
		c.Store.Path = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvWorkers, v, internalerr.ErrInvalidConfig)
		}
		c.Engine.Workers = n
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Classifier.Strategy) {
	case geo.StrategyTree:
	case geo.StrategyRaster:
		if c.Classifier.Raster == "" {
			return fmt.Errorf("classifier.raster is required for the raster strategy: %w", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("classifier.strategy %q: %w", c.Classifier.Strategy, internalerr.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Engine.Scoring) {
	case "", "wilson", "ratio":
	default:
		return fmt.Errorf("engine.scoring %q: %w", c.Engine.Scoring, internalerr.ErrInvalidConfig)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers %d: %w", c.Engine.Workers, internalerr.ErrInvalidConfig)
	}

	switch c.Store.Driver {
	case DriverMemory, "":
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for sqlite: %w", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("store.driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}
	return nil
}
