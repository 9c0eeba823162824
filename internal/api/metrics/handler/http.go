package metricsHandler

import (
	"DriveThruGolang/internal/middleware"
	"DriveThruGolang/pkg/latency"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// MetricsHandler projects the in-memory latency registry over HTTP.
// There is no service layer behind it, the tracker is the source.
type MetricsHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	tracker    latency.ITracker
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	tracker latency.ITracker,
) *MetricsHandler {
	return &MetricsHandler{
		log:        log,
		middleware: middleware,
		tracker:    tracker,
	}
}

func (h *MetricsHandler) Start(srv fiber.Router) {
	metrics := srv.Group("/metrics")

	metrics.Get("/latency", h.GetLatencyReport)
	metrics.Get("/latency/:operation", h.GetOperationStats)
}
