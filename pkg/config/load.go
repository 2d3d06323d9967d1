package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	// Try each provided path until we find a valid one
	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := findEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}

		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"redis_configured", cfg.Redis.URL != "",
		"geoip_url", cfg.GeoIP.ServiceURL,
		"geoip_api_key", maskValue(cfg.GeoIP.ApiKey),
		"exchange_api_url", cfg.ExchangeRate.ApiUrl,
		"exchange_api_key", maskValue(cfg.ExchangeRate.ApiKey),
		"default_country", cfg.Locale.DefaultCountry,
		"default_currency", cfg.Locale.DefaultCurrency,
		"default_usd_to_local_rate", cfg.DefaultUSDToLocalRate.String(),
	)
	return &cfg, nil
}

func (cfg *App) normalize() error {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	cfg.Locale.DefaultCountry = strings.ToUpper(strings.TrimSpace(cfg.Locale.DefaultCountry))
	cfg.Locale.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.Locale.DefaultCurrency))
	cfg.Locale.BaseCurrency = strings.ToUpper(strings.TrimSpace(cfg.Locale.BaseCurrency))
	if cfg.Locale.BaseCurrency == "" {
		return fmt.Errorf("LOCALE_BASE_CURRENCY must not be empty")
	}
	if !cfg.DefaultUSDToLocalRate.IsPositive() {
		return fmt.Errorf("DEFAULT_USD_TO_LOCAL_RATE must be positive, got %s", cfg.DefaultUSDToLocalRate)
	}
	cfg.GeoIP.HTTPTimeout = UpstreamTimeout(cfg.GeoIP.HTTPTimeout)
	cfg.ExchangeRate.HTTPTimeout = UpstreamTimeout(cfg.ExchangeRate.HTTPTimeout)
	cfg.GeoIP.ServiceURL = strings.TrimRight(cfg.GeoIP.ServiceURL, "/")
	return nil
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
