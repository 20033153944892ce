package router

import (
	"github.com/bullpowerhubgit/digistore24-automation/app/controllers"
	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Initialize controllers with their repositories
	controllers.InitializeWebhookController()
	controllers.InitializeSalesController()
	controllers.InitializeStatsController()

	// Webhook boundary: the upstream platform posts here and must always
	// get a prompt 200.
	app.Post("/webhook", controllers.HandleWebhook)
	app.Get("/webhook", controllers.HandleWebhookInfo)

	// Dashboard read paths
	app.Get("/sales", controllers.HandleListSales)
	app.Get("/stats", controllers.HandleStats)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
