package stats

import (
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/repository"
	"github.com/gofiber/fiber/v2/log"
)

// WindowStat is one {revenue, count} pair for a time window.
type WindowStat struct {
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

// Snapshot holds the four dashboard windows. Every window counts only
// sales with status=completed; mixing policies across windows produced
// inconsistent dashboards before, so the filter is fixed here.
type Snapshot struct {
	Today WindowStat `json:"today"`
	Week  WindowStat `json:"week"`
	Month WindowStat `json:"month"`
	Total WindowStat `json:"total"`
}

// Aggregator computes sales statistics from current storage state. No
// caching: the dashboard polls infrequently and must see current data.
type Aggregator struct {
	repo repository.SaleRepository

	// now is swappable for tests
	now func() time.Time
}

// NewAggregator creates an aggregator from an injected sale repository.
func NewAggregator(repo repository.SaleRepository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

// Compute issues an independent range query per window and reduces each
// to {revenue, count}. A nil repository (storage not configured) degrades
// to a zeroed snapshot so the dashboard stays usable.
func (a *Aggregator) Compute() (Snapshot, error) {
	if a.repo == nil {
		log.Warn("[Stats] sale repository not configured, returning zeroed snapshot")
		return Snapshot{}, nil
	}

	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	var snap Snapshot
	var err error
	if snap.Today, err = a.window(&midnight, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Week, err = a.window(&weekAgo, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Month, err = a.window(&monthAgo, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Total, err = a.window(nil, nil); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (a *Aggregator) window(from, to *time.Time) (WindowStat, error) {
	count, revenue, err := a.repo.SumCompleted(from, to)
	if err != nil {
		return WindowStat{}, err
	}
	return WindowStat{Revenue: revenue, Count: count}, nil
}
