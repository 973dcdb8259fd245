// Package metrics exposes trip finder Prometheus metrics on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Plans        *prometheus.CounterVec // outcome label
	PlanDuration prometheus.Histogram

	FeedFetches       *prometheus.CounterVec // result label: ok|fetch_error|decode_error
	FeedFetchDuration prometheus.Histogram

	HTTPRequests *prometheus.CounterVec // route, code labels

	LoadedStops     prometheus.Gauge
	LoadedTrips     prometheus.Gauge
	LoadedStopTimes prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripfinder_plans_total",
			Help: "Trip plans computed, by outcome.",
		}, []string{"outcome"}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripfinder_plan_duration_seconds",
			Help:    "Duration of a trip plan including the live feed fetch.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripfinder_feed_fetches_total",
			Help: "GTFS-RT trip updates fetches, by result.",
		}, []string{"result"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripfinder_feed_fetch_duration_seconds",
			Help:    "Duration to fetch and decode the trip updates feed.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripfinder_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		LoadedStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripfinder_loaded_stops",
			Help: "Stops in the loaded schedule.",
		}),
		LoadedTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripfinder_loaded_trips",
			Help: "Trips in the loaded schedule.",
		}),
		LoadedStopTimes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripfinder_loaded_stop_times",
			Help: "Stop times in the loaded schedule.",
		}),
	}

	reg.MustRegister(
		c.Plans, c.PlanDuration,
		c.FeedFetches, c.FeedFetchDuration,
		c.HTTPRequests,
		c.LoadedStops, c.LoadedTrips, c.LoadedStopTimes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Registry exposes the private registry, mainly for tests
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// All observe methods are safe on a nil *Collector so that callers can run
// without metrics.

// ObserveFeedFetch records one trip updates fetch
func (c *Collector) ObserveFeedFetch(result string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.FeedFetches.WithLabelValues(result).Inc()
	c.FeedFetchDuration.Observe(elapsed.Seconds())
}

// ObservePlan records one computed plan
func (c *Collector) ObservePlan(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Plans.WithLabelValues(outcome).Inc()
	c.PlanDuration.Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(route string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// SetSchedule publishes the size of the loaded schedule
func (c *Collector) SetSchedule(stops, trips, stopTimes int) {
	if c == nil {
		return
	}
	c.LoadedStops.Set(float64(stops))
	c.LoadedTrips.Set(float64(trips))
	c.LoadedStopTimes.Set(float64(stopTimes))
}
