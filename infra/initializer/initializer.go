package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	infra_cache "github.com/amirasaad/learnhub/infra/cache"
	infra_provider "github.com/amirasaad/learnhub/infra/provider"
	"github.com/amirasaad/learnhub/pkg/app"
	"github.com/amirasaad/learnhub/pkg/cache"
	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/currency"
	"github.com/amirasaad/learnhub/pkg/money"
)

const (
	memorySweepInterval = time.Minute
	redisPingTimeout    = 2 * time.Second
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (deps *app.Deps, err error) {
	return initializeDependencies(cfg, setupLogger(cfg.Log))
}

func initializeDependencies(cfg *config.App, logger *slog.Logger) (deps *app.Deps, err error) {
	deps = &app.Deps{Logger: logger}

	c, err := initCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.Cache = c
	deps.Closers = append(deps.Closers, c)

	deps.Catalog = currency.NewCatalog()
	deps.GeoLocator = infra_provider.NewGeoIPProvider(cfg.GeoIP, logger)
	deps.RateFetcher = infra_provider.NewExchangeRateAPIProvider(
		cfg.ExchangeRate,
		money.NormalizeCode(cfg.Locale.BaseCurrency),
		logger,
	)

	logger.Info("Dependencies initialized",
		"geo_provider", deps.GeoLocator.Name(),
		"rate_provider", deps.RateFetcher.Name(),
		"supported_currencies", len(deps.Catalog.Supported()),
	)
	return deps, nil
}

type closableCache interface {
	cache.Cache
	Close() error
}

// initCache picks Redis when a URL is configured and memory otherwise.
// An unreachable Redis is not fatal: the service degrades to a per-process
// cache and keeps serving.
func initCache(cfg *config.App, logger *slog.Logger) (closableCache, error) {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		logger.Info("No Redis URL configured, using in-memory cache")
		mc := infra_cache.NewMemoryCache(memorySweepInterval)
		return mc, nil
	}

	rc, err := infra_cache.NewRedisCache(cfg.Redis, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory cache", "error", err)
		_ = rc.Close()
		mc := infra_cache.NewMemoryCache(memorySweepInterval)
		return mc, nil
	}

	logger.Info("Using Redis cache", "key_prefix", cfg.Redis.KeyPrefix)
	return rc, nil
}
