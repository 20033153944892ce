package controllers

import (
	"errors"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/database"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/digistore"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// SyncController triggers a pull-sync run against the platform API.
type SyncController struct {
	syncer *digistore.Syncer
}

// NewSyncController creates a controller from an injected syncer.
func NewSyncController(syncer *digistore.Syncer) *SyncController {
	return &SyncController{syncer: syncer}
}

var syncController *SyncController

// InitializeSyncController wires the controller from the bootstrap edge.
func InitializeSyncController() {
	syncController = NewSyncController(digistore.NewSyncer(
		digistore.NewClientFromEnv(),
		webhook.NewRepository(database.GetDB()),
	))
}

// HandleSync implements POST /api/v1/sync.
func HandleSync(c *fiber.Ctx) error {
	return syncController.HandleSync(c)
}

func (sc *SyncController) HandleSync(c *fiber.Ctx) error {
	synced, err := sc.syncer.Run(c.Context())
	if err != nil {
		if errors.Is(err, digistore.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"error":   "digistore API is not configured",
			})
		}
		log.Errorf("[Sync] run failed after %d rows: %v", synced, err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "synced": synced})
}
