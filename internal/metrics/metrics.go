package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parlor_messages_appended_total",
		Help: "Total number of chat messages appended to room logs",
	})
	PresenceAnnouncements = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parlor_presence_announcements_total",
		Help: "Total number of presence announcements",
	})
	StalePresenceEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parlor_stale_presence_evicted_total",
		Help: "Total number of stale presence entries pruned during reads",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(MessagesAppended, PresenceAnnouncements, StalePresenceEvicted, HTTPRequestsTotal, HTTPRequestDuration)
}

// GinMiddleware records request count and latency per route for Prometheus.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
