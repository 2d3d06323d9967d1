package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/provider"
)

// GeoIPProvider resolves client IPs through an ipapi-style service:
// GET {base}/{ip}/json/ answering with at least {"country_code": "PE"}.
type GeoIPProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ErrInvalidIP is returned for input that is not an IP address; no request
// is sent for it.
var ErrInvalidIP = errors.New("invalid ip address")

type geoIPResponse struct {
	CountryCode string `json:"country_code"`
	// ipapi reports failures with 200 + {"error": true, "reason": "..."}
	Error  bool   `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewGeoIPProvider creates a geolocation client from config.
func NewGeoIPProvider(cfg *config.GeoIP, logger *slog.Logger) *GeoIPProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoIPProvider{
		apiKey:     cfg.ApiKey,
		baseURL:    strings.TrimRight(cfg.ServiceURL, "/"),
		httpClient: newHTTPClient(cfg.HTTPTimeout),
		logger:     logger,
	}
}

// LookupCountry fetches the country code for ip.
func (p *GeoIPProvider) LookupCountry(ctx context.Context, ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	endpoint := fmt.Sprintf("%s/%s/json/", p.baseURL, url.PathEscape(addr.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	p.logger.Debug("Looking up client country", "provider", p.Name(), "ip", ip)

	var body geoIPResponse
	if err := getJSON(p.httpClient, req, &body); err != nil {
		return "", err
	}
	if body.Error {
		return "", fmt.Errorf("%w: %s", provider.ErrMalformedResponse, body.Reason)
	}

	code := strings.ToUpper(strings.TrimSpace(body.CountryCode))
	if !isAlpha2(code) {
		return "", fmt.Errorf("%w: country_code %q", provider.ErrMalformedResponse, body.CountryCode)
	}
	return code, nil
}

// Name returns the provider's name
func (p *GeoIPProvider) Name() string {
	return "geoip"
}

func isAlpha2(s string) bool {
	return len(s) == 2 &&
		s[0] >= 'A' && s[0] <= 'Z' &&
		s[1] >= 'A' && s[1] <= 'Z'
}

var _ provider.GeoLocator = (*GeoIPProvider)(nil)
