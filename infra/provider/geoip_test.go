package provider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGeoIPProvider_LookupCountry(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ip":"190.12.0.1","country_code":"pe","country_name":"Peru"}`)
	}))
	defer srv.Close()

	p := NewGeoIPProvider(&config.GeoIP{
		ServiceURL:  srv.URL + "/",
		ApiKey:      "secret",
		HTTPTimeout: time.Second,
	}, discardLogger())

	code, err := p.LookupCountry(context.Background(), "190.12.0.1")
	require.NoError(t, err)
	assert.Equal(t, "PE", code)
	assert.Equal(t, "/190.12.0.1/json/", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGeoIPProvider_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"country_code":"CO"}`)
	}))
	defer srv.Close()

	p := NewGeoIPProvider(&config.GeoIP{ServiceURL: srv.URL}, discardLogger())
	code, err := p.LookupCountry(context.Background(), "2800:200::1")
	require.NoError(t, err)
	assert.Equal(t, "CO", code)
	assert.Empty(t, gotAuth)
}

func TestGeoIPProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, provider.ErrUpstreamStatus},
		{"rate limited", http.StatusTooManyRequests, `{"error":true}`, provider.ErrUpstreamStatus},
		{"not json", http.StatusOK, `<html>`, provider.ErrMalformedResponse},
		{"missing country", http.StatusOK, `{"ip":"1.2.3.4"}`, provider.ErrMalformedResponse},
		{"bad country", http.StatusOK, `{"country_code":"PER"}`, provider.ErrMalformedResponse},
		{"reported error", http.StatusOK, `{"error":true,"reason":"Reserved IP Address"}`, provider.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			p := NewGeoIPProvider(&config.GeoIP{ServiceURL: srv.URL}, discardLogger())
			_, err := p.LookupCountry(context.Background(), "1.2.3.4")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGeoIPProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewGeoIPProvider(&config.GeoIP{
		ServiceURL:  srv.URL,
		HTTPTimeout: 50 * time.Millisecond,
	}, discardLogger())

	start := time.Now()
	_, err := p.LookupCountry(context.Background(), "1.2.3.4")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewHTTPClient_ClampsTimeout(t *testing.T) {
	assert.Equal(t, config.MaxUpstreamTimeout, newHTTPClient(time.Hour).Timeout)
	assert.Equal(t, config.MaxUpstreamTimeout, newHTTPClient(0).Timeout)
}

func TestGeoIPProvider_RejectsNonIPInput(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = io.WriteString(w, `{"country_code":"US"}`)
	}))
	defer srv.Close()

	p := NewGeoIPProvider(&config.GeoIP{ServiceURL: srv.URL + "/v1"}, discardLogger())
	for _, in := range []string{"..", "a?b=1", "../admin", "x#y", ""} {
		_, err := p.LookupCountry(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidIP, in)
	}
	assert.Zero(t, requests)
}
