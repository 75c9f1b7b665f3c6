// Package metrics exposes Prometheus collectors for the leadscout service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botEventsTotal         *prometheus.CounterVec
	directoryPagesTotal    *prometheus.CounterVec
	directoryListingsTotal prometheus.Counter
	upstreamCallsTotal     *prometheus.CounterVec
	repliesTotal           *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		botEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscout_bot_events_total",
				Help: "Total number of inbound bot events, labeled by kind.",
			},
			[]string{"kind"},
		)

		directoryPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscout_directory_pages_total",
				Help: "Total number of directory pages fetched, labeled by result.",
			},
			[]string{"result"},
		)

		directoryListingsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leadscout_directory_listings_total",
				Help: "Total number of business listings parsed out of directory pages.",
			},
		)

		upstreamCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscout_upstream_calls_total",
				Help: "Total number of upstream API calls, labeled by service and outcome.",
			},
			[]string{"service", "outcome"},
		)

		repliesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscout_replies_total",
				Help: "Total number of outbound chat messages, labeled by flow.",
			},
			[]string{"flow"},
		)
	})
}

// ObserveEvent counts one inbound event of the given kind.
func ObserveEvent(kind string) {
	if botEventsTotal == nil {
		return
	}
	botEventsTotal.WithLabelValues(kind).Inc()
}

// ObserveDirectoryPage counts one directory page fetch with its result label.
func ObserveDirectoryPage(result string) {
	if directoryPagesTotal == nil {
		return
	}
	directoryPagesTotal.WithLabelValues(result).Inc()
}

// ObserveDirectoryListings counts parsed listings.
func ObserveDirectoryListings(n int) {
	if directoryListingsTotal == nil || n <= 0 {
		return
	}
	directoryListingsTotal.Add(float64(n))
}

// ObserveUpstreamCall counts one upstream API call with its outcome.
func ObserveUpstreamCall(service, outcome string) {
	if upstreamCallsTotal == nil {
		return
	}
	upstreamCallsTotal.WithLabelValues(service, outcome).Inc()
}

// ObserveReply counts one outbound chat message for a flow.
func ObserveReply(flow string) {
	if repliesTotal == nil {
		return
	}
	repliesTotal.WithLabelValues(flow).Inc()
}
