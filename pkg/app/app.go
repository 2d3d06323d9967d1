package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/learnhub/pkg/cache"
	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/currency"
	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/amirasaad/learnhub/pkg/service/rates"
)

// Deps contains all the dependencies needed to build the services
type Deps struct {
	Cache       cache.Cache
	GeoLocator  provider.GeoLocator
	RateFetcher provider.RateFetcher
	Catalog     *currency.Catalog
	Logger      *slog.Logger

	// Closers are released in reverse order by Close.
	Closers []io.Closer
}

// Close releases long-lived resources such as cache connections.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.Closers) - 1; i >= 0; i-- {
		if err := d.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type App struct {
	Deps         *Deps
	Config       *config.App
	RatesService *rates.Service
}

func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:   deps,
		Config: cfg,
		RatesService: rates.New(
			deps.GeoLocator,
			deps.RateFetcher,
			deps.Cache,
			deps.Catalog,
			rates.OptionsFromConfig(cfg),
			deps.Logger,
		),
	}
}
