package rates

import (
	"context"
	"time"

	"github.com/amirasaad/learnhub/pkg/provider"
	"github.com/stretchr/testify/mock"
)

type mockGeoLocator struct {
	mock.Mock
}

func (m *mockGeoLocator) LookupCountry(ctx context.Context, ip string) (string, error) {
	args := m.Called(ctx, ip)
	return args.String(0), args.Error(1)
}

func (m *mockGeoLocator) Name() string { return "mock-geo" }

type mockRateFetcher struct {
	mock.Mock
}

func (m *mockRateFetcher) FetchRates(ctx context.Context) (*provider.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RateTable), args.Error(1)
}

func (m *mockRateFetcher) Name() string { return "mock-rates" }

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
