package metricsHandler

import (
	"DriveThruGolang/internal/api/metrics"
	"DriveThruGolang/pkg/handlerUtil"
	"DriveThruGolang/pkg/log"
	"errors"
	"github.com/gofiber/fiber/v2"
)

func (h *MetricsHandler) GetLatencyReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing latency report request")

	stats := h.tracker.AllStats()

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, metrics.LatencyReport{
		Operations: stats,
		Count:      len(stats),
	})
}

func (h *MetricsHandler) GetOperationStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"operation":  ctx.Params("operation"),
	}).Debug("Processing operation stats request")

	operation := ctx.Params("operation")
	if operation == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("operation name is required"), ctx.Path())
	}

	stats := h.tracker.Stats(operation)
	if stats.Count == 0 {
		return errHandler.Handle(ctx, requestID, metrics.ErrNoSamples, ctx.Path(), "latency_stats")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
}
