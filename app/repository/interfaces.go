package repository

import (
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
)

// SaleRepository defines the read-side database operations used by the
// dashboard API and the stats aggregator. Writes go through the webhook
// package's repository, which owns the upsert semantics.
type SaleRepository interface {
	GetByOrderID(orderID string) (*models.Sale, error)
	List(offset, limit int, from, to *time.Time) ([]models.Sale, error)
	Count(from, to *time.Time) (int64, error)
	// SumCompleted reduces a date window to {count, revenue} over sales
	// with status=completed. Nil bounds are unbounded.
	SumCompleted(from, to *time.Time) (count int64, revenue float64, err error)
}
