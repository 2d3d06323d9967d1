package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxUpstreamTimeout bounds every call to the geolocation and exchange-rate
// providers regardless of what the environment asks for.
const MaxUpstreamTimeout = 5 * time.Second

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
	// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For and
	// X-Real-IP headers are believed. Requests from anyone else are keyed by
	// their socket address.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1,::1"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[learnhub]"`
}

type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"learnhub:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// GeoIP configures the IP geolocation upstream.
type GeoIP struct {
	ServiceURL  string        `envconfig:"SERVICE_URL" default:"https://ipapi.co"`
	ApiKey      string        `envconfig:"API_KEY"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"24h"`
}

// ExchangeRate configures the rate-table upstream.
type ExchangeRate struct {
	ApiUrl      string        `envconfig:"API_URL" default:"https://api.exchangerate-api.com/v4/latest/USD"`
	ApiKey      string        `envconfig:"API_KEY"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

// Locale holds the market the platform falls back to when a client cannot
// be located.
type Locale struct {
	DefaultCountry  string `envconfig:"DEFAULT_COUNTRY" default:"PE"`
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"PEN"`
	BaseCurrency    string `envconfig:"BASE_CURRENCY" default:"USD"`
}

type App struct {
	Env                   string          `envconfig:"APP_ENV" default:"development"`
	Server                *Server         `envconfig:"SERVER"`
	Log                   *Log            `envconfig:"LOG"`
	Redis                 *Redis          `envconfig:"REDIS"`
	RateLimit             *RateLimit      `envconfig:"RATE_LIMIT"`
	GeoIP                 *GeoIP          `envconfig:"GEOIP"`
	ExchangeRate          *ExchangeRate   `envconfig:"EXCHANGE_RATE"`
	Locale                *Locale         `envconfig:"LOCALE"`
	DefaultUSDToLocalRate decimal.Decimal `envconfig:"DEFAULT_USD_TO_LOCAL_RATE" default:"3.75"`
}

// UpstreamTimeout clamps a configured timeout to MaxUpstreamTimeout.
// Zero or negative values fall back to the maximum.
func UpstreamTimeout(d time.Duration) time.Duration {
	if d <= 0 || d > MaxUpstreamTimeout {
		return MaxUpstreamTimeout
	}
	return d
}
