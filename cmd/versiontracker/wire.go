package main

import (
	"errors"

	"github.com/docdyhr/versiontracker-sub000/internal/cache"
	"github.com/docdyhr/versiontracker-sub000/internal/catalog"
	"github.com/docdyhr/versiontracker-sub000/internal/common/config"
	"github.com/docdyhr/versiontracker-sub000/internal/common/logger"
	"github.com/docdyhr/versiontracker-sub000/internal/inventory"
	"github.com/docdyhr/versiontracker-sub000/internal/match"
	"github.com/docdyhr/versiontracker-sub000/internal/recommend"
)

// buildStore opens the tiered cache at the configured directory
func buildStore(cfg *config.Config) (*cache.Store, error) {
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewStore(dir,
		cache.WithMemoryEntries(cfg.Cache.MemoryEntries),
		cache.WithDiskEntries(cfg.Cache.DiskEntries),
		cache.WithCompressThreshold(cfg.Cache.CompressThreshold),
	)
}

// buildEngine assembles the full recommendation pipeline. The returned
// store must be closed by the caller when done.
func buildEngine(cfg *config.Config) (*recommend.Engine, *cache.Store, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	runner := catalog.NewBrewRunner(cfg.Brew.Path)
	limiter := catalog.NewRateLimiter(cfg.MinDelay(), cfg.MaxDelay())
	coord := catalog.NewCoordinator(runner, store,
		catalog.WithBatchSize(cfg.Query.BatchSize),
		catalog.WithWorkers(cfg.Query.Workers),
		catalog.WithMaxRetries(uint64(cfg.Query.MaxRetries)),
		catalog.WithQueryTimeout(cfg.QueryTimeout()),
		catalog.WithTTL(cfg.TTL()),
		catalog.WithCatalogTTL(cfg.CatalogTTL()),
		catalog.WithRateLimiter(limiter),
	)

	norm, err := buildNormalizer(cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	matcher := match.NewMatcher(norm, match.WithThreshold(cfg.Match.Threshold))

	provider := inventory.NewProfilerProvider("")

	engine := recommend.NewEngine(provider, matcher, coord,
		recommend.WithExcludes(cfg.Excludes, norm),
	)
	return engine, store, nil
}

// buildNormalizer loads optional alias overrides from the configured
// TOML file. A missing file is only an error when explicitly configured.
func buildNormalizer(cfg *config.Config) (*match.Normalizer, error) {
	if cfg.Match.AliasFile == "" {
		return match.NewNormalizer(nil), nil
	}

	aliases, err := match.LoadAliases(cfg.Match.AliasFile)
	if err != nil {
		if errors.Is(err, match.ErrAliasFileNotFound) {
			logger.Warn("alias file %s not found, using built-in aliases", cfg.Match.AliasFile)
			return match.NewNormalizer(nil), nil
		}
		return nil, err
	}
	return match.NewNormalizer(aliases), nil
}
