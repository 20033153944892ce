package controllers

import (
	"math"
	"strconv"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/repository"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/database"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// salesQuery is the validated caller input for the sales listing.
type salesQuery struct {
	Limit     int    `validate:"min=1,max=100"`
	Page      int    `validate:"min=1"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

// SalesController serves the paginated dashboard sale listing.
type SalesController struct {
	repo     repository.SaleRepository
	validate *validator.Validate
}

// NewSalesController creates a controller from an injected repository.
func NewSalesController(repo repository.SaleRepository) *SalesController {
	return &SalesController{repo: repo, validate: validator.New()}
}

var salesController *SalesController

// InitializeSalesController wires the controller from the bootstrap edge.
func InitializeSalesController() {
	repository.InitializeFactory(database.GetDB())
	salesController = NewSalesController(repository.GetGlobalFactory().GetSaleRepository())
}

// HandleListSales implements GET /sales.
func HandleListSales(c *fiber.Ctx) error {
	return salesController.HandleListSales(c)
}

func (sc *SalesController) HandleListSales(c *fiber.Ctx) error {
	q := salesQuery{
		Limit:     intQuery(c, "limit", 50),
		Page:      intQuery(c, "page", 1),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if err := sc.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 100, page must be at least 1, dates must be YYYY-MM-DD",
		})
	}

	var from, to *time.Time
	if q.StartDate != "" {
		t, _ := time.Parse("2006-01-02", q.StartDate)
		from = &t
	}
	if q.EndDate != "" {
		// End date is inclusive for callers.
		t, _ := time.Parse("2006-01-02", q.EndDate)
		t = t.AddDate(0, 0, 1)
		to = &t
	}

	if sc.repo == nil {
		// Storage not configured: keep the dashboard usable with an
		// empty listing instead of erroring.
		return c.JSON(fiber.Map{
			"data": []interface{}{},
			"meta": fiber.Map{"page": q.Page, "limit": q.Limit, "total": 0, "totalPages": 0},
		})
	}

	total, err := sc.repo.Count(from, to)
	if err != nil {
		log.Errorf("[Sales] count query failed: %v", err)
		return internalError(c)
	}
	sales, err := sc.repo.List((q.Page-1)*q.Limit, q.Limit, from, to)
	if err != nil {
		log.Errorf("[Sales] list query failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"data": sales,
		"meta": fiber.Map{
			"page":       q.Page,
			"limit":      q.Limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	})
}

func intQuery(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Let validation reject it with a proper 400.
		return -1
	}
	return v
}

// internalError hides failure detail from dashboard callers.
func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
