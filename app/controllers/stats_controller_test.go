package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/stats"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type statSaleRepo struct {
	count   int64
	revenue float64
	sumErr  error
}

func (s *statSaleRepo) GetByOrderID(orderID string) (*models.Sale, error) {
	return nil, errors.New("not implemented")
}

func (s *statSaleRepo) List(offset, limit int, from, to *time.Time) ([]models.Sale, error) {
	return nil, errors.New("not implemented")
}

func (s *statSaleRepo) Count(from, to *time.Time) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *statSaleRepo) SumCompleted(from, to *time.Time) (int64, float64, error) {
	if s.sumErr != nil {
		return 0, 0, s.sumErr
	}
	return s.count, s.revenue, nil
}

func newStatsTestApp(repo *statSaleRepo) *fiber.App {
	var sc *StatsController
	if repo == nil {
		sc = NewStatsController(stats.NewAggregator(nil))
	} else {
		sc = NewStatsController(stats.NewAggregator(repo))
	}
	app := fiber.New()
	app.Get("/stats", sc.HandleStats)
	return app
}

func TestHandleStats(t *testing.T) {
	app := newStatsTestApp(&statSaleRepo{count: 4, revenue: 199.96})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	raw, _ := io.ReadAll(resp.Body)
	var snap stats.Snapshot
	assert.NoError(t, json.Unmarshal(raw, &snap))

	// The fake returns the same totals for every window.
	for _, w := range []stats.WindowStat{snap.Today, snap.Week, snap.Month, snap.Total} {
		assert.Equal(t, int64(4), w.Count)
		assert.Equal(t, 199.96, w.Revenue)
	}
}

func TestHandleStatsNilRepository(t *testing.T) {
	app := newStatsTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var snap stats.Snapshot
	assert.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, stats.Snapshot{}, snap)
}

func TestHandleStatsAggregationError(t *testing.T) {
	app := newStatsTestApp(&statSaleRepo{sumErr: errors.New("db gone")})

	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
