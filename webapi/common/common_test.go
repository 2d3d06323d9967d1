package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/learnhub/pkg/service/rates"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func newTestApp(cfg ...fiber.Config) *fiber.App {
	app := fiber.New(cfg...)
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(ClientIP(c))
	})
	app.Post("/bind", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[sampleRequest](c)
		if err != nil {
			return nil
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "ok", in)
	})
	app.Get("/problem", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Unsupported currency",
			fmt.Errorf("%w: %q", rates.ErrUnsupportedCurrency, "XYZ"))
	})
	return app
}

func TestClientIP(t *testing.T) {
	app := newTestApp()
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "190.12.0.1, 10.0.0.2"}, "190.12.0.1"},
		{"forwarded with port", map[string]string{"X-Forwarded-For": "190.12.0.1:5123"}, "190.12.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 181.49.0.10 "}, "181.49.0.10"},
		{"socket", nil, "0.0.0.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/ip", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.want, string(body))
		})
	}
}

func TestClientIP_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	send := func(app *fiber.App) string {
		req := httptest.NewRequest(fiber.MethodGet, "/ip", nil)
		req.Header.Set("X-Forwarded-For", "190.12.0.1")
		req.Header.Set("X-Real-IP", "190.12.0.2")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	untrusted := newTestApp(fiber.Config{EnableTrustedProxyCheck: true, TrustedProxies: []string{"10.0.0.0/8"}})
	assert.Equal(t, "0.0.0.0", send(untrusted))

	trusted := newTestApp(fiber.Config{EnableTrustedProxyCheck: true, TrustedProxies: []string{"0.0.0.0"}})
	assert.Equal(t, "190.12.0.1", send(trusted))
}

func TestBindAndValidate(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/bind", strings.NewReader(`{"name":"course","count":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/bind", strings.NewReader(`{"count":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "Validation failed", pd.Title)
	assert.Len(t, pd.Errors, 2)

	req = httptest.NewRequest(fiber.MethodPost, "/bind", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProblemDetailsJSON_StatusFromError(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(fiber.MethodGet, "/problem", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "Unsupported currency", pd.Title)
	assert.Equal(t, "/problem", pd.Instance)
	assert.Contains(t, pd.Detail, "XYZ")
}

func TestErrorToStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, ErrorToStatusCode(fiber.ErrNotFound))
	assert.Equal(t, fiber.StatusInternalServerError, ErrorToStatusCode(assert.AnError))
}
