package metrics

import (
	"strconv"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess          = "success"
	OutcomeFailed           = "failed"
	OutcomeDuplicate        = "duplicate"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeInvalidRequest   = "invalid_request"
	OutcomeAmountMismatch   = "amount_mismatch"
	OutcomeOrderNotFound    = "order_not_found"
	OutcomeError            = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	
	paymentsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vnpay_payments_created_total",
			Help: "Total number of signed VNPay payment URLs",
		},
	)
	
	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnpay_callbacks_total",
			Help: "Total number of VNPay callbacks by outcome",
		},
		[]string{"source", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(paymentsCreatedTotal)
	prometheus.MustRegister(callbacksTotal)
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		
		c.Next()
		
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()
		
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordPaymentCreated() {
	paymentsCreatedTotal.Inc()
}

func RecordCallback(source, outcome string) {
	callbacksTotal.WithLabelValues(source, outcome).Inc()
}
