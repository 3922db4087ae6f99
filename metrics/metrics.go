// Package metrics provides Prometheus instrumentation for the API:
// standard HTTP request metrics plus the domain counters the shop
// cares about (orders placed, logins).
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "handmade",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handmade",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// OrdersCreated counts successfully placed orders.
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handmade",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total number of orders successfully placed.",
	})

	// OrderFailures counts rejected order attempts by failure code.
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handmade",
			Subsystem: "orders",
			Name:      "failed_total",
			Help:      "Total number of rejected order attempts.",
		},
		[]string{"code"},
	)

	// Logins counts login attempts by result.
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handmade",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, OrdersCreated, OrderFailures, Logins)
}

// Middleware records duration and count for every request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler exposes the /metrics scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
