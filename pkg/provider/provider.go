// Package provider defines the upstream services the currency service
// depends on: an IP geolocation lookup and an exchange-rate table.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/shopspring/decimal"
)

// Common errors for provider operations
var (
	ErrUpstreamStatus    = errors.New("upstream returned non-success status")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrRateNotFound      = errors.New("currency not found in rate table")
	ErrInvalidRate       = errors.New("invalid exchange rate")
)

// GeoLocator resolves the country an IP address belongs to.
type GeoLocator interface {
	// LookupCountry returns the ISO 3166-1 alpha-2 code for ip.
	LookupCountry(ctx context.Context, ip string) (string, error)

	// Name returns the provider's name for logging and metrics.
	Name() string
}

// RateFetcher fetches a full table of rates relative to one base currency.
type RateFetcher interface {
	// FetchRates performs a single upstream call.
	FetchRates(ctx context.Context) (*RateTable, error)

	// Name returns the provider's name for logging and metrics.
	Name() string
}

// RateTable holds rates relative to Base. Base itself is worth 1 even
// when the upstream leaves it out of the table.
type RateTable struct {
	Base      money.Code
	Rates     map[money.Code]decimal.Decimal
	FetchedAt time.Time
}

// Rate returns how many units of to one unit of from buys.
//
// When from is the base the rate is read directly; otherwise it is derived
// through the base: rates[to] / rates[from].
func (t *RateTable) Rate(from, to money.Code) (decimal.Decimal, error) {
	toRate, err := t.lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	if from == t.Base {
		return toRate, nil
	}
	fromRate, err := t.lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	return toRate.Div(fromRate), nil
}

func (t *RateTable) lookup(code money.Code) (decimal.Decimal, error) {
	if code == t.Base {
		if r, ok := t.Rates[code]; ok && r.IsPositive() {
			return r, nil
		}
		return money.One, nil
	}
	r, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s=%s", ErrInvalidRate, code, r)
	}
	return r, nil
}
