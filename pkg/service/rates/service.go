// Package rates resolves a student's local currency from their IP address
// and converts base-currency prices into it.
//
// Every operation returns a usable value. When the geolocation or the
// exchange-rate upstream is unavailable the service substitutes configured
// defaults and reports SourceFallback instead of failing the request.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/amirasaad/learnhub/pkg/cache"
	"github.com/amirasaad/learnhub/pkg/currency"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedCurrency is returned when a caller asks for prices in a
// currency outside the catalog.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

const (
	// DefaultGeoCacheTTL is how long a resolved IP stays cached.
	DefaultGeoCacheTTL = 24 * time.Hour
	// DefaultRateCacheTTL is how long a fetched exchange rate stays cached.
	DefaultRateCacheTTL = time.Hour
)

// Service is built once at startup and shared by all request handlers.
type Service struct {
	geo     provider.GeoLocator
	rates   provider.RateFetcher
	cache   cache.Cache
	catalog *currency.Catalog
	opts    Options
	logger  *slog.Logger
}

// New creates the currency rates service.
func New(
	geo provider.GeoLocator,
	rates provider.RateFetcher,
	c cache.Cache,
	catalog *currency.Catalog,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = currency.NewCatalog()
	}
	return &Service{
		geo:     geo,
		rates:   rates,
		cache:   c,
		catalog: catalog,
		opts:    opts.withDefaults(),
		logger:  logger.With("service", "CurrencyRates"),
	}
}

// ---- Detection ----

// DetectCountryAndCurrency resolves the country and currency for ip.
// Loopback and local addresses get the configured default without any
// cache or network access; unparsable input and upstream failures get the
// same default.
func (s *Service) DetectCountryAndCurrency(ctx context.Context, ip string) Detection {
	ip = strings.TrimSpace(ip)
	if ip == "" || isLocalhostName(ip) {
		return s.defaultDetection(SourceLocal)
	}
	addr, ok := parseClientIP(ip)
	if !ok {
		s.logger.Warn("Unparsable client IP, using default locale", "ip", ip)
		fallbacksUsed.WithLabelValues("detect").Inc()
		return s.defaultDetection(SourceFallback)
	}
	if isLocalAddress(addr) {
		return s.defaultDetection(SourceLocal)
	}
	ip = addr.String()

	key := cache.GeoKey(ip)
	var cached geoEntry
	if s.cacheGet(ctx, "geoip", key, &cached) && cached.CountryCode != "" && cached.CurrencyCode != "" {
		return Detection{
			CountryCode:  cached.CountryCode,
			CurrencyCode: cached.CurrencyCode,
			Source:       SourceCache,
		}
	}

	res := s.lookupCountry(ctx, ip)
	if !res.ok() {
		s.logger.Warn("Geolocation failed, using default locale",
			"ip", ip,
			"default_country", s.opts.DefaultCountry,
			"default_currency", s.opts.DefaultCurrency,
			"error", res.reason,
		)
		fallbacksUsed.WithLabelValues("detect").Inc()
		return s.defaultDetection(SourceFallback)
	}

	detection := Detection{
		CountryCode:  res.value,
		CurrencyCode: s.catalog.CurrencyForCountry(res.value),
		Source:       SourceUpstream,
	}
	s.cacheSet(ctx, key, geoEntry{
		CountryCode:  detection.CountryCode,
		CurrencyCode: detection.CurrencyCode,
	}, s.opts.GeoCacheTTL)

	s.logger.Debug("Client locale detected",
		"ip", ip,
		"country", detection.CountryCode,
		"currency", detection.CurrencyCode,
	)
	return detection
}

func (s *Service) lookupCountry(ctx context.Context, ip string) outcome[string] {
	ctx, cancel := context.WithTimeout(ctx, s.opts.GeoTimeout)
	defer cancel()

	country, err := s.geo.LookupCountry(ctx, ip)
	upstreamRequests.WithLabelValues(s.geo.Name(), outcomeLabel(err)).Inc()
	if err != nil {
		return failed[string](err)
	}
	return succeeded(country)
}

func (s *Service) defaultDetection(src Source) Detection {
	return Detection{
		CountryCode:  s.opts.DefaultCountry,
		CurrencyCode: s.opts.DefaultCurrency,
		Source:       src,
	}
}

// parseClientIP accepts a bare address or one written with a port or
// brackets ("127.0.0.1:8080", "[::1]"). Zones are dropped.
func parseClientIP(ip string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(ip); err == nil {
		return ap.Addr().WithZone("").Unmap(), true
	}
	ip = strings.TrimSuffix(strings.TrimPrefix(ip, "["), "]")
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.WithZone("").Unmap(), true
}

func isLocalhostName(ip string) bool {
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return strings.EqualFold(ip, "localhost")
}

// isLocalAddress reports whether addr cannot be meaningfully geolocated:
// loopback, private, link-local or unspecified.
func isLocalAddress(addr netip.Addr) bool {
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsUnspecified()
}

// ---- Exchange rates ----

// ExchangeRate returns how many units of to one unit of from buys.
func (s *Service) ExchangeRate(ctx context.Context, from, to money.Code) Rate {
	from = money.NormalizeCode(from.String())
	to = money.NormalizeCode(to.String())
	if from == to {
		return Rate{From: from, To: to, Value: money.One, Source: SourceIdentity}
	}

	key := cache.RateKey(from, to)
	var cached decimal.Decimal
	if s.cacheGet(ctx, "exchange_rate", key, &cached) && cached.IsPositive() {
		return Rate{From: from, To: to, Value: cached, Source: SourceCache}
	}

	res := s.fetchRate(ctx, from, to)
	if !res.ok() {
		value := s.fallbackRate(from, to)
		s.logger.Warn("Exchange rate unavailable, using fallback",
			"from", from,
			"to", to,
			"fallback_rate", value.String(),
			"error", res.reason,
		)
		fallbacksUsed.WithLabelValues("exchange_rate").Inc()
		return Rate{From: from, To: to, Value: value, Source: SourceFallback}
	}

	s.cacheSet(ctx, key, res.value, s.opts.RateCacheTTL)
	s.logger.Debug("Exchange rate fetched", "from", from, "to", to, "rate", res.value.String())
	return Rate{From: from, To: to, Value: res.value, Source: SourceUpstream}
}

func (s *Service) fetchRate(ctx context.Context, from, to money.Code) outcome[decimal.Decimal] {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RateTimeout)
	defer cancel()

	table, err := s.rates.FetchRates(ctx)
	upstreamRequests.WithLabelValues(s.rates.Name(), outcomeLabel(err)).Inc()
	if err != nil {
		return failed[decimal.Decimal](err)
	}
	rate, err := table.Rate(from, to)
	if err != nil {
		return failed[decimal.Decimal](err)
	}
	return succeeded(rate)
}

// fallbackRate is the rate used when the upstream cannot answer. Only
// USD→default currency has a configured value; any other pair gets 1.00
// rather than borrowing an unrelated currency's rate.
func (s *Service) fallbackRate(from, to money.Code) decimal.Decimal {
	if from == money.USD && to == s.opts.DefaultCurrency && s.opts.DefaultUSDToLocalRate.IsPositive() {
		return s.opts.DefaultUSDToLocalRate
	}
	return money.One
}

// ---- Conversion ----

// ConvertAmount prices amount, expressed in the base currency, in target.
// The result is rounded half-up to two fractional digits.
func (s *Service) ConvertAmount(ctx context.Context, amount decimal.Decimal, target money.Code) Conversion {
	rate := s.rateFromBase(ctx, target)
	return s.convert(amount, rate)
}

// LocalizeAmounts converts several base-currency amounts with a single rate
// lookup, rounding each one independently.
func (s *Service) LocalizeAmounts(ctx context.Context, amounts []decimal.Decimal, target money.Code) []Conversion {
	rate := s.rateFromBase(ctx, target)
	out := make([]Conversion, 0, len(amounts))
	for _, amount := range amounts {
		out = append(out, s.convert(amount, rate))
	}
	return out
}

func (s *Service) rateFromBase(ctx context.Context, target money.Code) Rate {
	target = money.NormalizeCode(target.String())
	if target == s.opts.BaseCurrency {
		return Rate{From: target, To: target, Value: money.One, Source: SourceIdentity}
	}
	return s.ExchangeRate(ctx, s.opts.BaseCurrency, target)
}

func (s *Service) convert(amount decimal.Decimal, rate Rate) Conversion {
	converted := money.Round(amount)
	if rate.Source != SourceIdentity {
		converted = money.Multiply(amount, rate.Value)
	}
	return Conversion{
		Amount:    amount,
		From:      s.opts.BaseCurrency,
		To:        rate.To,
		Rate:      rate.Value,
		Converted: converted,
		Source:    rate.Source,
	}
}

// ---- Display ----

// CurrencySymbol returns the display symbol; unknown codes return themselves.
func (s *Service) CurrencySymbol(code money.Code) string {
	return s.catalog.Symbol(money.NormalizeCode(code.String()))
}

// CurrencyDisplayName returns the display name; unknown codes return themselves.
func (s *Service) CurrencyDisplayName(code money.Code) string {
	return s.catalog.DisplayName(money.NormalizeCode(code.String()))
}

// IsSupported reports whether prices can be shown in code.
func (s *Service) IsSupported(code money.Code) bool {
	return s.catalog.IsSupported(money.NormalizeCode(code.String()))
}

// ValidateTarget normalizes code and checks it is a currency prices can be
// shown in.
func (s *Service) ValidateTarget(code string) (money.Code, error) {
	c := money.NormalizeCode(code)
	if !c.IsValid() || !s.catalog.IsSupported(c) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// SupportedCurrencies lists the currencies prices can be shown in.
func (s *Service) SupportedCurrencies() []currency.Meta {
	return s.catalog.Supported()
}

// BaseCurrency is the currency catalog prices are stored in.
func (s *Service) BaseCurrency() money.Code {
	return s.opts.BaseCurrency
}

// ---- Cache helpers ----

// cacheGet treats any cache error as a miss.
func (s *Service) cacheGet(ctx context.Context, kind, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Cache read failed, treating as miss", "key", key, "error", err)
		cacheLookups.WithLabelValues(kind, "error").Inc()
		return false
	}
	if !found {
		cacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}
	cacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}
