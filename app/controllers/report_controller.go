package controllers

import (
	"github.com/bullpowerhubgit/digistore24-automation/app/repository"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/database"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/report"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// ReportController triggers the daily sales report email.
type ReportController struct {
	reporter *report.Reporter
}

// NewReportController creates a controller from an injected reporter.
func NewReportController(reporter *report.Reporter) *ReportController {
	return &ReportController{reporter: reporter}
}

var reportController *ReportController

// InitializeReportController wires the controller from the bootstrap edge.
func InitializeReportController() {
	repository.InitializeFactory(database.GetDB())
	reportController = NewReportController(
		report.NewReporter(repository.GetGlobalFactory().GetSaleRepository()),
	)
}

// HandleDailyReport implements GET /api/v1/report/daily.
func HandleDailyReport(c *fiber.Ctx) error {
	return reportController.HandleDailyReport(c)
}

func (rc *ReportController) HandleDailyReport(c *fiber.Ctx) error {
	summary, err := rc.reporter.RunDaily()
	if err != nil {
		log.Errorf("[Report] daily report failed: %v", err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"success": true, "report": summary})
}
