package router

import (
	"github.com/bullpowerhubgit/digistore24-automation/app/controllers"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	controllers.InitializeSyncController()
	controllers.InitializeReportController()

	api := app.Group("/api", limiter.New(limiter.Config{
		Storage: newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Digistore24 automation API",
		})
	})

	v1 := api.Group("/v1")

	// Alias for deployments that configured the platform with the
	// prefixed path.
	v1.Post("/digistore/webhook", controllers.HandleWebhook)
	v1.Get("/digistore/webhook", controllers.HandleWebhookInfo)

	// Scheduled/sync callers authenticate with the shared secret.
	secret := env.GetEnv("API_SECRET_KEY", "")
	v1.Post("/sync", middleware.RequireSharedSecret(secret), controllers.HandleSync)
	v1.Get("/report/daily", middleware.RequireSharedSecret(secret), controllers.HandleDailyReport)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold
// across instances. Database 1 keeps limiter keys out of the cache DB.
func newLimiterStorage() fiber.Storage {
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     env.GetEnvInt("CACHE_PORT", 6379),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1,
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
