package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/shopspring/decimal"
)

// ExchangeRateAPIProvider fetches the whole rate table in one call.
// The upstream answers with {"rates": {"PEN": 3.75, ...}} relative to a
// single base; "base" or "base_code" name it when present.
type ExchangeRateAPIProvider struct {
	apiKey       string
	apiURL       string
	baseCurrency money.Code
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
}

// exchangeRateAPIResponse decodes rates straight into decimals so no value
// ever passes through float64.
type exchangeRateAPIResponse struct {
	Base     string                     `json:"base,omitempty"`
	BaseCode string                     `json:"base_code,omitempty"`
	Result   string                     `json:"result,omitempty"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// NewExchangeRateAPIProvider creates a rate-table client. baseCurrency is
// assumed when the payload does not name its base.
func NewExchangeRateAPIProvider(
	cfg *config.ExchangeRate,
	baseCurrency money.Code,
	logger *slog.Logger,
) *ExchangeRateAPIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExchangeRateAPIProvider{
		apiKey:       cfg.ApiKey,
		apiURL:       cfg.ApiUrl,
		baseCurrency: baseCurrency,
		httpClient:   newHTTPClient(cfg.HTTPTimeout),
		logger:       logger,
		now:          time.Now,
	}
}

// FetchRates fetches the current rate table.
func (p *ExchangeRateAPIProvider) FetchRates(ctx context.Context) (*provider.RateTable, error) {
	endpoint, err := p.endpoint()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("Fetching exchange rates from API", "provider", p.Name())

	var body exchangeRateAPIResponse
	if err := getJSON(p.httpClient, req, &body); err != nil {
		return nil, err
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("%w: result=%s", provider.ErrMalformedResponse, body.Result)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rates", provider.ErrMalformedResponse)
	}

	table := &provider.RateTable{
		Base:      p.baseCurrency,
		Rates:     make(map[money.Code]decimal.Decimal, len(body.Rates)),
		FetchedAt: p.now().UTC(),
	}
	switch {
	case body.BaseCode != "":
		table.Base = money.NormalizeCode(body.BaseCode)
	case body.Base != "":
		table.Base = money.NormalizeCode(body.Base)
	}
	for code, rate := range body.Rates {
		table.Rates[money.NormalizeCode(code)] = rate
	}

	p.logger.Debug("Exchange rates fetched", "base", table.Base, "count", len(table.Rates))
	return table, nil
}

func (p *ExchangeRateAPIProvider) endpoint() (string, error) {
	if p.apiKey == "" {
		return p.apiURL, nil
	}
	u, err := url.Parse(p.apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid exchange rate api url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", p.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Name returns the provider's name
func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api"
}

var _ provider.RateFetcher = (*ExchangeRateAPIProvider)(nil)
