package rates

import (
	"time"

	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/shopspring/decimal"
)

// Source tells callers where a value came from.
type Source string

const (
	// SourceLocal marks detections short-circuited for loopback/local clients.
	SourceLocal Source = "local"
	// SourceIdentity marks same-currency rates and conversions into the base.
	SourceIdentity Source = "identity"
	SourceCache    Source = "cache"
	SourceUpstream Source = "upstream"
	// SourceFallback marks configured defaults used because an upstream failed.
	SourceFallback Source = "fallback"
)

// Detection is the locale resolved for a client IP.
type Detection struct {
	CountryCode  string
	CurrencyCode money.Code
	Source       Source
}

// Rate is the number of To units one From unit buys.
type Rate struct {
	From   money.Code
	To     money.Code
	Value  decimal.Decimal
	Source Source
}

// Conversion is an amount in the base currency priced in another currency.
type Conversion struct {
	Amount    decimal.Decimal
	From      money.Code
	To        money.Code
	Rate      decimal.Decimal
	Converted decimal.Decimal
	Source    Source
}

// Options holds the policy knobs of the service.
type Options struct {
	DefaultCountry  string
	DefaultCurrency money.Code
	BaseCurrency    money.Code
	// DefaultUSDToLocalRate is the only configured fallback rate; it applies
	// to USD→DefaultCurrency and nothing else.
	DefaultUSDToLocalRate decimal.Decimal
	GeoCacheTTL           time.Duration
	RateCacheTTL          time.Duration
	GeoTimeout            time.Duration
	RateTimeout           time.Duration
}

// OptionsFromConfig maps application config onto service options.
func OptionsFromConfig(cfg *config.App) Options {
	return Options{
		DefaultCountry:        cfg.Locale.DefaultCountry,
		DefaultCurrency:       money.NormalizeCode(cfg.Locale.DefaultCurrency),
		BaseCurrency:          money.NormalizeCode(cfg.Locale.BaseCurrency),
		DefaultUSDToLocalRate: cfg.DefaultUSDToLocalRate,
		GeoCacheTTL:           cfg.GeoIP.CacheTTL,
		RateCacheTTL:          cfg.ExchangeRate.CacheTTL,
		GeoTimeout:            cfg.GeoIP.HTTPTimeout,
		RateTimeout:           cfg.ExchangeRate.HTTPTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.DefaultCountry == "" {
		o.DefaultCountry = "PE"
	}
	if o.DefaultCurrency == "" {
		o.DefaultCurrency = money.PEN
	}
	if o.BaseCurrency == "" {
		o.BaseCurrency = money.USD
	}
	if o.GeoCacheTTL <= 0 {
		o.GeoCacheTTL = DefaultGeoCacheTTL
	}
	if o.RateCacheTTL <= 0 {
		o.RateCacheTTL = DefaultRateCacheTTL
	}
	o.GeoTimeout = config.UpstreamTimeout(o.GeoTimeout)
	o.RateTimeout = config.UpstreamTimeout(o.RateTimeout)
	return o
}

// geoEntry is the cached form of a detection.
type geoEntry struct {
	CountryCode  string     `json:"country_code"`
	CurrencyCode money.Code `json:"currency_code"`
}

// outcome is the result of one upstream call: a value, or the reason there
// is none. Callers decide the substitute explicitly.
type outcome[T any] struct {
	value  T
	reason error
}

func succeeded[T any](v T) outcome[T] { return outcome[T]{value: v} }

func failed[T any](err error) outcome[T] { return outcome[T]{reason: err} }

func (o outcome[T]) ok() bool { return o.reason == nil }
