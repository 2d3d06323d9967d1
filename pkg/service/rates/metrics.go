package rates

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_currency_upstream_requests_total",
			Help: "Calls to geolocation and exchange-rate providers by outcome",
		},
		[]string{"provider", "outcome"},
	)

	fallbacksUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_currency_fallbacks_total",
			Help: "Times a configured default replaced an upstream answer",
		},
		[]string{"operation"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_currency_cache_lookups_total",
			Help: "Shared cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
