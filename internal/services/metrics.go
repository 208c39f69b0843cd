package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Content pipeline metrics
	PostsServed   *prometheus.CounterVec
	RenderLatency prometheus.Histogram
	PostsNotFound prometheus.Counter

	// Search metrics
	SearchQueries prometheus.Counter
	PostsIndexed  prometheus.Gauge
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		PostsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statforge_posts_served_total",
			Help: "Total number of blog posts served by content group",
		}, []string{"group"}),

		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "statforge_post_render_duration_seconds",
			Help:    "Markdown compile latency per single-document load",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		PostsNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statforge_posts_not_found_total",
			Help: "Total number of blog post lookups that missed",
		}),

		SearchQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statforge_search_queries_total",
			Help: "Total number of blog search queries",
		}),

		PostsIndexed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "statforge_posts_indexed",
			Help: "Number of documents currently in the search index",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}
