package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Checker-Finance/fix-adapter/internal/fix"
)

func RegisterRoutes(app *fiber.App, nc *nats.Conn, handler *Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"nats": "ok",
			"fix":  "ok",
		}
		status := "ok"
		code := fiber.StatusOK

		if nc == nil || !nc.IsConnected() {
			checks["nats"] = "disconnected"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		// A stopped session is a valid operating mode; only ERROR degrades.
		if fixStatus := handler.initiator.Status(); fixStatus.Status == fix.StatusError {
			checks["fix"] = fixStatus.Details
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	v1 := app.Group("/api/v1")

	v1.Post("/orders", handler.CreateOrderHandler)
	v1.Get("/orders", handler.ListOrdersHandler)
	v1.Get("/orders/:orderId", handler.GetOrderHandler)

	v1.Get("/exec-reports", handler.ListExecReportsHandler)
	v1.Post("/exec-reports/simulate", handler.SimulateExecReportHandler)
	v1.Get("/exec-reports/:key", handler.GetExecStateHandler)

	v1.Post("/fix/start", handler.StartFixHandler)
	v1.Post("/fix/stop", handler.StopFixHandler)
	v1.Get("/fix/status", handler.FixStatusHandler)

	v1.Get("/market/status", handler.MarketStatusHandler)
	v1.Get("/market/quotes", handler.ListQuotesHandler)
	v1.Post("/market/quotes/simulate", handler.SimulateQuoteHandler)
	v1.Get("/market/quotes/:symbol", handler.GetQuoteHandler)
}
