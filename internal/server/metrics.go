package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. A nil *Metrics
// records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ingestions      *prometheus.CounterVec
	queries         *prometheus.CounterVec
	indexChunks     prometheus.Gauge
	indexGeneration prometheus.Gauge

	registry *prometheus.Registry
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "docqa"
	}
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.ingestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Document ingestions by outcome",
		},
		[]string{"outcome"},
	)
	m.queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Questions answered by outcome",
		},
		[]string{"outcome"},
	)
	m.indexChunks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_chunks",
		Help:      "Chunks in the live index generation",
	})
	m.indexGeneration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_generation",
		Help:      "Number of the live index generation",
	})

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ingestions,
		m.queries,
		m.indexChunks,
		m.indexGeneration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request counts and latencies per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		c.Next()

		m.requestsTotal.WithLabelValues(c.Request.Method, path, statusClass(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
}

func (m *Metrics) observeIngestion(outcome string) {
	if m != nil {
		m.ingestions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) observeQuery(outcome string) {
	if m != nil {
		m.queries.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) setIndex(chunks int, generation uint64) {
	if m != nil {
		m.indexChunks.Set(float64(chunks))
		m.indexGeneration.Set(float64(generation))
	}
}

func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
