// Package cache defines the shared key-value store the currency service
// keeps geolocation results and exchange rates in.
package cache

import (
	"context"
	"time"

	"github.com/amirasaad/learnhub/pkg/money"
)

// Cache is a process-external key-value store with per-key expiry.
//
// Values are encoded as JSON and written with a single key write, so a
// reader sees either the previous value, the new value, or nothing.
type Cache interface {
	// Get decodes the value stored under key into dest. found is false on
	// a miss or when the entry has expired.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key if present.
	Delete(ctx context.Context, key string) error
}

// GeoKey is the key a geolocation result for ip is stored under.
func GeoKey(ip string) string {
	return "geoip_" + ip
}

// RateKey is the key the from→to exchange rate is stored under.
func RateKey(from, to money.Code) string {
	return "exchange_rate_" + from.String() + "_" + to.String()
}
