package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MailSendFailures counts password-reset emails that could not be
	// delivered to the SMTP transport. Mail dispatch is fire-and-forget, so
	// this counter (plus the error log) is the only failure signal.
	MailSendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_mail_send_failures_total",
		Help: "Total number of outbound emails that failed to send",
	})

	// UploadFailures counts image uploads rejected by the object storage
	// provider, labelled by backend.
	UploadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_upload_failures_total",
		Help: "Total number of failed object storage uploads by provider",
	}, []string{"provider"})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the Prometheus middleware for the given service name.
// The instance is shared; fiberprometheus registers its collectors in the
// default registry and a second registration would panic.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware returns the request-metrics handler backed by prom.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
