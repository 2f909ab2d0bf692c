package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics exposes request-level instruments for the gin server.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	meter := provider.Meter("mjestimate/http")

	requests, err := meter.Int64Counter(
		"mjestimate_http_requests_total",
		metric.WithDescription("Count of HTTP requests by route, method and status."),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"mjestimate_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// GinMiddleware records a counter and latency sample per request. Routes are
// labeled with the gin template path so path parameters do not explode
// cardinality.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("route", route),
			attribute.String("method", c.Request.Method),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		)
		m.requests.Add(c.Request.Context(), 1, attrs)
		m.duration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}
