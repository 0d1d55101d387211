package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/wals/internal/logger"
	"github.com/cognicore/wals/pkg/wals"
	"github.com/cognicore/wals/pkg/wals/config"
	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/region"
)

// loadConfig resolves the configuration from, in increasing precedence:
// defaults, the --config file, the environment (including the dotenv file)
// and explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := config.LoadEnvFiles(envFile); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if flags.Changed("data-dir") {
		cfg.Data.Dir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("classifier") {
		cfg.Classifier.Strategy, _ = flags.GetString("classifier")
	}
	if flags.Changed("raster") {
		cfg.Classifier.Raster, _ = flags.GetString("raster")
	}
	if flags.Changed("db") {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path, _ = flags.GetString("db")
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("scoring") {
		cfg.Engine.Scoring, _ = flags.GetString("scoring")
	}
	return &cfg, nil
}

// openAtlas loads configuration and data and builds the Atlas. The caller
// must Close it.
func openAtlas(cmd *cobra.Command, p *printer) (*wals.Atlas, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	a, err := openAtlasWith(cmd, p, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func openAtlasWith(cmd *cobra.Command, p *printer, cfg *config.Config) (*wals.Atlas, error) {
	log := logger.L()
	l := &config.Loader{
		Config: *cfg,
		Warn: func(table string, line int, err error) {
			log.Warn("malformed row", "table", table, "line", line, "err", err)
		},
	}
	comp, err := l.Load(cmd.Context())
	if err != nil {
		return nil, err
	}

	ds := comp.Dataset
	if comp.FromSnapshot {
		p.Debugf("Snapshot: %s", cfg.Data.Snapshot)
	}
	p.Debugf("Parameters: %d", len(ds.Parameters()))
	p.Debugf("Languages: %d", len(ds.Languages()))
	p.Debugf("Values: %d", len(ds.Values()))
	p.Debugf("Domain Elements: %d", len(ds.DomainElements()))

	return wals.FromComponents(comp), nil
}

// resolveLanguage looks a language up and falls back to the first loaded
// one with a warning.
func resolveLanguage(a *wals.Atlas, query string) (*dataset.Language, error) {
	l, fellBack := a.ResolveLanguage(query)
	if l == nil {
		return nil, fmt.Errorf("no languages loaded")
	}
	if fellBack {
		logger.L().Warn("unknown language, using first loaded", "query", query, "language", l.ID)
	}
	return l, nil
}

// resolveRegion looks a region up and falls back to EARTH with a warning.
func resolveRegion(a *wals.Atlas, id string) *region.Region {
	r, fellBack := a.ResolveRegion(id)
	if fellBack {
		logger.L().Warn("unknown region, using "+region.Earth, "region", id)
	}
	return r
}

func firstArg(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}
