package currency

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/learnhub/infra/cache"
	"github.com/amirasaad/learnhub/pkg/currency"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/amirasaad/learnhub/pkg/service/rates"
	"github.com/amirasaad/learnhub/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeo struct {
	country string
	err     error
	calls   int
}

func (s *stubGeo) LookupCountry(context.Context, string) (string, error) {
	s.calls++
	return s.country, s.err
}

func (s *stubGeo) Name() string { return "stub-geo" }

type stubRates struct {
	table *provider.RateTable
	err   error
	calls int
}

func (s *stubRates) FetchRates(context.Context) (*provider.RateTable, error) {
	s.calls++
	return s.table, s.err
}

func (s *stubRates) Name() string { return "stub-rates" }

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T, geo *stubGeo, fetcher *stubRates) *fiber.App {
	t.Helper()
	c := infra_cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = c.Close() })

	svc := rates.New(geo, fetcher, c, currency.NewCatalog(), rates.Options{
		DefaultCountry:        "PE",
		DefaultCurrency:       money.PEN,
		BaseCurrency:          money.USD,
		DefaultUSDToLocalRate: decimal.RequireFromString("3.75"),
		GeoTimeout:            time.Second,
		RateTimeout:           time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := fiber.New()
	Routes(app, svc)
	return app
}

func upstreamTable() *provider.RateTable {
	return &provider.RateTable{
		Base: money.USD,
		Rates: map[money.Code]decimal.Decimal{
			money.PEN: decimal.RequireFromString("3.75"),
			money.COP: decimal.RequireFromString("4000.00"),
		},
	}
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func decodeProblem(t *testing.T, resp *http.Response) common.ProblemDetails {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var pd common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

func TestListCurrencies(t *testing.T) {
	app := setup(t, &stubGeo{}, &stubRates{})

	resp := do(t, app, fiber.MethodGet, "/api/currencies", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := decodeData[[]CurrencyResponse](t, resp)
	require.NotEmpty(t, list)
	assert.Contains(t, list, CurrencyResponse{Code: "PEN", Symbol: "S/", Name: "Peruvian Sol"})
}

func TestDetectCurrency(t *testing.T) {
	t.Run("forwarded client is geolocated", func(t *testing.T) {
		geo := &stubGeo{country: "CO"}
		app := setup(t, geo, &stubRates{})

		resp := do(t, app, fiber.MethodGet, "/api/currency/detect", "",
			map[string]string{"X-Forwarded-For": "181.49.0.10, 10.0.0.1"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		d := decodeData[DetectionResponse](t, resp)
		assert.Equal(t, "181.49.0.10", d.IP)
		assert.Equal(t, "CO", d.CountryCode)
		assert.Equal(t, "COP", d.CurrencyCode)
		assert.Equal(t, "upstream", d.Source)
		assert.Equal(t, 1, geo.calls)
	})

	t.Run("local client skips geolocation", func(t *testing.T) {
		geo := &stubGeo{country: "CO"}
		app := setup(t, geo, &stubRates{})

		resp := do(t, app, fiber.MethodGet, "/api/currency/detect", "",
			map[string]string{"X-Real-IP": "127.0.0.1"})
		d := decodeData[DetectionResponse](t, resp)
		assert.Equal(t, "PE", d.CountryCode)
		assert.Equal(t, "PEN", d.CurrencyCode)
		assert.Equal(t, "S/", d.CurrencySymbol)
		assert.Equal(t, "local", d.Source)
		assert.Zero(t, geo.calls)
	})

	t.Run("geolocation outage falls back", func(t *testing.T) {
		app := setup(t, &stubGeo{err: errors.New("503")}, &stubRates{})

		resp := do(t, app, fiber.MethodGet, "/api/currency/detect", "",
			map[string]string{"X-Forwarded-For": "200.48.0.1"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		d := decodeData[DetectionResponse](t, resp)
		assert.Equal(t, "PEN", d.CurrencyCode)
		assert.Equal(t, "fallback", d.Source)
	})
}

func TestGetExchangeRate(t *testing.T) {
	fetcher := &stubRates{table: upstreamTable()}
	app := setup(t, &stubGeo{}, fetcher)

	resp := do(t, app, fiber.MethodGet, "/api/currency/rate?from=usd&to=COP", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	r := decodeData[RateResponse](t, resp)
	assert.Equal(t, "USD", r.From)
	assert.True(t, decimal.RequireFromString("4000").Equal(decimal.RequireFromString(r.Rate)))

	// from defaults to the base currency
	resp = do(t, app, fiber.MethodGet, "/api/currency/rate?to=PEN", "", nil)
	r = decodeData[RateResponse](t, resp)
	assert.Equal(t, "USD", r.From)
	assert.Equal(t, "3.75", r.Rate)

	resp = do(t, app, fiber.MethodGet, "/api/currency/rate?from=PEN&to=pen", "", nil)
	r = decodeData[RateResponse](t, resp)
	assert.Equal(t, "1.00", r.Rate)
	assert.Equal(t, "identity", r.Source)

	resp = do(t, app, fiber.MethodGet, "/api/currency/rate?to=PESO", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid currency code", decodeProblem(t, resp).Title)
}

func TestConvertAmount(t *testing.T) {
	t.Run("converts with the upstream rate", func(t *testing.T) {
		app := setup(t, &stubGeo{}, &stubRates{table: upstreamTable()})

		resp := do(t, app, fiber.MethodPost, "/api/currency/convert",
			`{"amount":"20.00","target_currency":"COP"}`, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		conv := decodeData[ConversionResponse](t, resp)
		assert.Equal(t, "20.00", conv.OriginalAmount)
		assert.Equal(t, "USD", conv.OriginalCurrency)
		assert.Equal(t, "80000.00", conv.ConvertedAmount)
		assert.Equal(t, "COP", conv.TargetCurrency)
	})

	t.Run("upstream outage uses the configured rate", func(t *testing.T) {
		app := setup(t, &stubGeo{}, &stubRates{err: errors.New("timeout")})

		resp := do(t, app, fiber.MethodPost, "/api/currency/convert",
			`{"amount":"20","target_currency":"pen"}`, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		conv := decodeData[ConversionResponse](t, resp)
		assert.Equal(t, "75.00", conv.ConvertedAmount)
		assert.Equal(t, "S/ 75.00", conv.Formatted)
		assert.Equal(t, "3.75", conv.ExchangeRate)
		assert.Equal(t, "fallback", conv.Source)
	})

	t.Run("base currency target skips rate lookup", func(t *testing.T) {
		fetcher := &stubRates{table: upstreamTable()}
		app := setup(t, &stubGeo{}, fetcher)

		resp := do(t, app, fiber.MethodPost, "/api/currency/convert",
			`{"amount":"19.995","target_currency":"USD"}`, nil)
		conv := decodeData[ConversionResponse](t, resp)
		assert.Equal(t, "20.00", conv.ConvertedAmount)
		assert.Equal(t, "identity", conv.Source)
		assert.Equal(t, "1.00", conv.ExchangeRate)
		assert.Zero(t, fetcher.calls)
	})

	bad := []struct {
		name  string
		body  string
		title string
	}{
		{"unsupported currency", `{"amount":"10","target_currency":"XYZ"}`, "Unsupported currency"},
		{"negative amount", `{"amount":"-5","target_currency":"PEN"}`, "Invalid amount"},
		{"non numeric amount", `{"amount":"ten","target_currency":"PEN"}`, "Validation failed"},
		{"missing target", `{"amount":"10"}`, "Validation failed"},
		{"malformed json", `{"amount":`, "Invalid request body"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			app := setup(t, &stubGeo{}, &stubRates{table: upstreamTable()})
			resp := do(t, app, fiber.MethodPost, "/api/currency/convert", tc.body, nil)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.title, decodeProblem(t, resp).Title)
		})
	}
}

func TestLocalizeAmounts(t *testing.T) {
	fetcher := &stubRates{table: upstreamTable()}
	app := setup(t, &stubGeo{}, fetcher)

	resp := do(t, app, fiber.MethodPost, "/api/currency/localize",
		`{"amounts":["10","19.99","0.01"],"target_currency":"PEN"}`, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeData[[]ConversionResponse](t, resp)
	require.Len(t, out, 3)
	assert.Equal(t, "37.50", out[0].ConvertedAmount)
	assert.Equal(t, "74.96", out[1].ConvertedAmount)
	assert.Equal(t, "0.04", out[2].ConvertedAmount)
	assert.Equal(t, 1, fetcher.calls)

	resp = do(t, app, fiber.MethodPost, "/api/currency/localize",
		`{"amounts":[],"target_currency":"PEN"}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
