package controllers

import (
	"github.com/bullpowerhubgit/digistore24-automation/app/repository"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/database"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/stats"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// StatsController serves the dashboard statistics snapshot.
type StatsController struct {
	agg *stats.Aggregator
}

// NewStatsController creates a controller from an injected aggregator.
func NewStatsController(agg *stats.Aggregator) *StatsController {
	return &StatsController{agg: agg}
}

var statsController *StatsController

// InitializeStatsController wires the controller from the bootstrap edge.
func InitializeStatsController() {
	repository.InitializeFactory(database.GetDB())
	statsController = NewStatsController(
		stats.NewAggregator(repository.GetGlobalFactory().GetSaleRepository()),
	)
}

// HandleStats implements GET /stats.
func HandleStats(c *fiber.Ctx) error {
	return statsController.HandleStats(c)
}

func (sc *StatsController) HandleStats(c *fiber.Ctx) error {
	// Aggregates must reflect current storage state on every call.
	c.Set(fiber.HeaderCacheControl, "no-store")

	snap, err := sc.agg.Compute()
	if err != nil {
		log.Errorf("[Stats] aggregation failed: %v", err)
		return internalError(c)
	}
	return c.JSON(snap)
}
