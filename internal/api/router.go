package api

import (
	"ai-insights/docs"
	"ai-insights/internal/api/handlers"
	"ai-insights/pkg/config"
	"ai-insights/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Query      *handlers.QueryHandler
	Insight    *handlers.InsightHandler
	Preference *handlers.PreferenceHandler
	Alert      *handlers.AlertHandler
	Spending   *handlers.SpendingHandler
}

func SetupRouter(h Handlers, server config.ServerConfig, verifier middleware.TokenValidator, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  server.ReadTimeout,
		WriteTimeout: server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Probes (public)
	app.Get("/ready", h.Health.Ready)
	app.Get("/healthy", h.Health.Healthy)
	app.Get("/version", h.Health.Version)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(verifier, appLogger))

	protected.Post("/query", h.Query.ProcessQuery)
	protected.Get("/query/suggestions", h.Query.Suggestions)
	protected.Post("/query/clarify", h.Query.Clarify)
	protected.Post("/visualizations/improve", h.Query.ImproveVisualization)
	protected.Get("/charts/:type", h.Query.ChartType)

	insights := protected.Group("/insights")
	insights.Get("", h.Insight.ListInsights)
	insights.Post("/generate", h.Insight.GenerateInsights)
	insights.Put("/:id/read", h.Insight.MarkRead)
	protected.Get("/dashboard", h.Insight.Dashboard)

	protected.Get("/preferences", h.Preference.GetPreferences)
	protected.Post("/preferences", h.Preference.UpdatePreferences)
	protected.Post("/preferences/alerts", h.Preference.SetAlertPreferences)
	protected.Post("/interactions", h.Preference.LogInteraction)
	protected.Get("/recommendations", h.Preference.Recommendations)

	alerts := protected.Group("/alerts")
	alerts.Get("", h.Alert.ListAlerts)
	alerts.Post("", h.Alert.CreateAlert)
	alerts.Get("/check", h.Alert.CheckAlerts)
	alerts.Patch("/:id", h.Alert.UpdateAlert)

	spending := protected.Group("/spending")
	spending.Get("/categories", h.Spending.Categories)
	spending.Get("/trends", h.Spending.Trends)
	spending.Get("/monthly", h.Spending.Monthly)

	return app
}
