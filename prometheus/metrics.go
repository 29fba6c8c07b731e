// Package prometheus registers the service's metrics and the HTTP metrics
// middleware.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login attempts by principal kind ("user" or "consultant")
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_login_total",
			Help: "Total number of login attempts by principal kind",
		},
		[]string{"kind"},
	)

	// Token issuance by principal kind and token type
	TokenIssuedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_tokens_issued_total",
			Help: "Total number of tokens issued",
		},
		[]string{"kind", "token_type"}, // token_type is "access_token" or "refresh_token"
	)

	// Successful refresh rotations
	TokensRefreshedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_tokens_refreshed_total",
			Help: "Total number of successful refresh-token rotations",
		},
		[]string{"kind"},
	)

	// Token revocations
	TokenRevokedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_tokens_revoked_total",
			Help: "Total number of refresh tokens revoked",
		},
		[]string{"kind", "reason"}, // reason is "rotation" or "logout"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_credentials", "invalid_token", "invalid_access_token", etc.
	)

	// Tenant resolution outcomes
	TenantResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_tenant_resolutions_total",
			Help: "Total number of tenant resolution attempts by outcome",
		},
		[]string{"outcome"}, // "resolved", "required", "not_found", "exempt"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrportal_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrportal_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrportal_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(TokenIssuedCounter)
	prometheus.MustRegister(TokensRefreshedCounter)
	prometheus.MustRegister(TokenRevokedCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(TenantResolutionCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// RecordAuthError increments the auth error counter for the given type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTenantResolution increments the tenant resolution counter.
func RecordTenantResolution(outcome string) {
	TenantResolutionCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// TrackDBOperation returns a function that tracks database operation duration
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			labels := prometheus.Labels{
				"endpoint": c.Path(),
				"method":   c.Request().Method,
				"status":   strconv.Itoa(status),
			}
			HTTPRequestCounter.With(labels).Inc()
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
