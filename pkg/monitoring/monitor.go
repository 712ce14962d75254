package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AssessmentPersistFailures 评估结果尽力持久化失败次数（不影响接口返回）
	AssessmentPersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_persist_failures_total",
			Help: "Assessments scored but not persisted",
		},
	)

	UploadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_upload_bytes_total",
			Help: "Bytes accepted by the upload endpoint",
		},
		[]string{"provider"},
	)

	// RateLimited 被限流拒绝的请求数
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AssessmentPersistFailures)
		prometheus.MustRegister(UploadBytes)
		prometheus.MustRegister(RateLimited)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
